package controllers

import (
	"net/http"
	"strconv"

	"equipmaster/app"
	"equipmaster/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

type userInput struct {
	FullName        string `json:"fullName" binding:"required"`
	Department      string `json:"department" binding:"required"`
	PersonnelNumber string `json:"personnelNumber"`
	Blocked         bool   `json:"blocked"`
}

func (uc *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	u, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) Create(c *gin.Context) {
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u := &models.User{
		FullName:        in.FullName,
		Department:      in.Department,
		PersonnelNumber: in.PersonnelNumber,
		Blocked:         in.Blocked,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), app.Username(c), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UserController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := uc.Repo.UpdateUser(c.Request.Context(), app.Username(c), id, func(u *models.User) {
		u.FullName = in.FullName
		u.Department = in.Department
		u.PersonnelNumber = in.PersonnelNumber
		u.Blocked = in.Blocked
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := uc.Repo.DeleteUser(c.Request.Context(), app.Username(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
