package routes

import (
	"equipmaster/app"
	"equipmaster/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	eqCtl := controllers.NewEquipmentController(s)
	typeCtl := controllers.NewEquipmentTypeController(s)
	userCtl := controllers.NewUserController(s)
	asgCtl := controllers.NewAssignmentController(s)
	mntCtl := controllers.NewMaintenanceController(s)
	logCtl := controllers.NewLogController(s)

	identMW := app.CurrentUser(a.AppSessions())

	api := r.Group("/api", identMW)
	{
		api.POST("/login", s.Login)
		api.POST("/logout", s.Logout)
		api.GET("/whoami", s.Whoami)
	}

	types := api.Group("/equipment-types")
	{
		types.GET("", typeCtl.List)
		types.POST("", typeCtl.Create)
		types.PUT("/:id", typeCtl.Update)
		types.DELETE("/:id", typeCtl.Delete)
	}

	eq := api.Group("/equipments")
	{
		eq.GET("", eqCtl.List) // ?q=&status=
		eq.GET("/upcoming-maintenance", eqCtl.UpcomingMaintenance)
		eq.GET("/:id", eqCtl.Get)
		eq.POST("", eqCtl.Create)
		eq.PUT("/:id", eqCtl.Update)
		eq.POST("/:id/decommission", eqCtl.Decommission)
		eq.DELETE("/:id", eqCtl.Delete)
	}

	users := api.Group("/users")
	{
		users.GET("", userCtl.List) // ?q=&page=&size=
		users.GET("/:id", userCtl.Get)
		users.POST("", userCtl.Create)
		users.PUT("/:id", userCtl.Update)
		users.DELETE("/:id", userCtl.Delete)
	}

	asg := api.Group("/assignments")
	{
		asg.GET("", asgCtl.List) // ?status=active|returned&equipmentId=&userId=
		asg.POST("", asgCtl.Issue)
		asg.POST("/:id/return", asgCtl.Return)
	}

	mnt := api.Group("/maintenance-logs")
	{
		mnt.GET("", mntCtl.List) // ?equipmentId=
		mnt.POST("", mntCtl.Record)
		mnt.PUT("/:id", mntCtl.Update)
	}

	api.GET("/logs", logCtl.List)
}
