// Package audit turns tracked entity mutations into human-readable
// log entries. The persistence layer collects Changes while applying a
// commit and hands them to Entries just before the transaction closes.
package audit

import (
	"fmt"
	"strings"
	"time"

	"equipmaster/models"
)

type Kind int

const (
	Added Kind = iota
	Modified
	Deleted
)

// Change is one tracked mutation: the entity's type name, primary key, and
// the full before/after field set.
type Change struct {
	Kind       Kind
	EntityName string
	Key        string
	Fields     []Field
}

// NewChange snapshots an entity mutation. For Added pass the entity after
// insert (so the key is populated) as next; for Deleted pass the entity as
// prev; for Modified pass both states.
func NewChange(kind Kind, prev, next any) Change {
	var ref any
	if next != nil {
		ref = next
	} else {
		ref = prev
	}
	c := Change{Kind: kind, EntityName: entityName(ref)}

	oldPairs := snapshot(prev)
	newPairs := snapshot(next)
	switch kind {
	case Added:
		for _, p := range newPairs {
			c.Fields = append(c.Fields, Field{Name: p.name, New: p.value})
		}
	case Deleted:
		for _, p := range oldPairs {
			c.Fields = append(c.Fields, Field{Name: p.name, Old: p.value})
		}
	default:
		for i, p := range newPairs {
			f := Field{Name: p.name, New: p.value}
			if i < len(oldPairs) && oldPairs[i].name == p.name {
				f.Old = oldPairs[i].value
			}
			c.Fields = append(c.Fields, f)
		}
	}
	if f, ok := c.field("ID"); ok {
		if kind == Deleted {
			c.Key = f.Old
		} else {
			c.Key = f.New
		}
	}
	if c.Key == "" {
		c.Key = "unknown"
	}
	return c
}

func (c Change) field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// changed reports the non-key fields whose value actually differs.
func (c Change) changed() []Field {
	var out []Field
	for _, f := range c.Fields {
		if f.Name != "ID" && f.Old != f.New {
			out = append(out, f)
		}
	}
	return out
}

// isReturn reports whether a Modified assignment had its ReturnedAt flip
// from unset to set, which is audited as "Return" rather than "Update".
func (c Change) isReturn() bool {
	if c.Kind != Modified || c.EntityName != "Assignment" {
		return false
	}
	f, ok := c.field("ReturnedAt")
	return ok && f.Old == "" && f.New != ""
}

// Entries synthesizes one log entry per change, all stamped with the commit
// time, in the order the mutations were staged. LogEntry changes are
// ignored so writing the audit trail never audits itself.
func Entries(username string, now time.Time, changes []Change) []models.LogEntry {
	var entries []models.LogEntry
	for _, c := range changes {
		if c.EntityName == "LogEntry" {
			continue
		}
		action, details := c.describe(username)
		entries = append(entries, models.LogEntry{
			Action:     action,
			Username:   username,
			EntityName: c.EntityName,
			Details:    details,
			Timestamp:  now,
		})
	}
	return entries
}

func (c Change) describe(username string) (action, details string) {
	if c.isReturn() {
		equipID := "unknown"
		if f, ok := c.field("EquipmentID"); ok && f.New != "" {
			equipID = f.New
		}
		return models.ActionReturn,
			fmt.Sprintf("Equipment (ID: %s) returned by %s.", equipID, username)
	}

	switch c.Kind {
	case Added:
		var props []string
		for _, f := range c.Fields {
			if f.Name != "ID" {
				props = append(props, f.Name+": "+f.New)
			}
		}
		details = fmt.Sprintf("Created new %s record (ID: %s)", c.EntityName, c.Key)
		if len(props) > 0 {
			details += ". Fields: " + strings.Join(props, ", ")
		}
		return models.ActionCreate, details

	case Deleted:
		var props []string
		for _, f := range c.Fields {
			props = append(props, f.Name+": "+f.Old)
		}
		details = fmt.Sprintf("Deleted %s record (ID: %s)", c.EntityName, c.Key)
		if len(props) > 0 {
			details += ". State before deletion: " + strings.Join(props, ", ")
		}
		return models.ActionDelete, details

	default:
		diff := c.changed()
		if len(diff) == 0 {
			return models.ActionUpdate,
				fmt.Sprintf("%s record (ID: %s) updated", c.EntityName, c.Key)
		}
		var props []string
		for _, f := range diff {
			props = append(props, fmt.Sprintf("%s: %s -> %s", f.Name, f.Old, f.New))
		}
		return models.ActionUpdate,
			fmt.Sprintf("Changed %s record (ID: %s) fields: %s", c.EntityName, c.Key, strings.Join(props, ", "))
	}
}
