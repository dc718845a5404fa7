package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pkowalczyk/booktracker/internal/admin"
)

// CountFunc reports how many rows a model has.
type CountFunc func() (int64, error)

// AdminController renders a read-only overview of the registered
// models: the registration table from internal/admin joined with live
// row counts. It replaces nothing in the public catalog; it exists so
// an operator can see at a glance what the database holds.
type AdminController struct {
	models []admin.ModelAdmin
	counts map[string]CountFunc
}

func NewAdminController(counts map[string]CountFunc) *AdminController {
	return &AdminController{
		models: admin.Registry(),
		counts: counts,
	}
}

type adminRow struct {
	Name         string
	ListDisplay  []string
	SearchFields []string
	Count        int64
}

// Overview lists every registered model with its configuration and row
// count.
// GET /admin
func (ac *AdminController) Overview(c *gin.Context) {
	rows := make([]adminRow, 0, len(ac.models))
	for _, model := range ac.models {
		row := adminRow{
			Name:         model.Name,
			ListDisplay:  model.ListDisplay,
			SearchFields: model.SearchFields,
		}
		if count, ok := ac.counts[model.Name]; ok {
			n, err := count()
			if err != nil {
				renderInternalError(c, err, "admin count")
				return
			}
			row.Count = n
		}
		rows = append(rows, row)
	}

	c.HTML(http.StatusOK, "admin_overview.html", templateData(c, gin.H{
		"Title":  "Admin",
		"Models": rows,
	}))
}
