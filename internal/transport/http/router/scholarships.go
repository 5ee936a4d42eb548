package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
)

func mountScholarships(api *gin.RouterGroup, d *deps) {
	api.GET("/scholarships", d.listScholarships)

	editors := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.CanEdit, "Access denied: Editors only"))
	editors.POST("/scholarships", d.createScholarship)
	editors.PUT("/scholarships/:id", d.updateScholarship)
	editors.DELETE("/scholarships/:id", d.deleteScholarship)
}

func (d *deps) listScholarships(c *gin.Context) {
	rows, err := d.scholarships.List(c.Request.Context(), c.Query("year"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if rows == nil {
		rows = []domain.Scholarship{}
	}
	c.JSON(http.StatusOK, gin.H{"scholarships": rows})
}

type scholarshipIn struct {
	BeneficiaryName string  `json:"beneficiary_name"`
	Institution     string  `json:"institution"`
	Amount          float64 `json:"amount"`
	Year            string  `json:"year"`
	Status          string  `json:"status"`
	Category        string  `json:"category"`
}

func (d *deps) createScholarship(c *gin.Context) {
	var in scholarshipIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, response.BadRequest("Name and Institution required"))
		return
	}
	if in.BeneficiaryName == "" || in.Institution == "" {
		response.Fail(c, response.BadRequest("Name and Institution required"))
		return
	}
	if in.Status == "" {
		in.Status = "Pending"
	}
	if in.Category == "" {
		in.Category = "Tertiary"
	}

	s := domain.Scholarship{
		BeneficiaryName: in.BeneficiaryName,
		Institution:     in.Institution,
		Amount:          in.Amount,
		Year:            in.Year,
		Status:          in.Status,
		Category:        in.Category,
	}
	ctx := c.Request.Context()
	if err := d.scholarships.Create(ctx, &s); err != nil {
		response.Fail(c, err)
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionCreateScholar,
		gin.H{"id": s.ID, "beneficiary_name": s.BeneficiaryName}, c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"id": s.ID, "message": "Scholarship added"})
}

func (d *deps) updateScholarship(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in scholarshipIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, response.BadRequest("Name and Institution required"))
		return
	}

	ctx := c.Request.Context()
	s, err := d.scholarships.FindByID(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if s == nil {
		response.Fail(c, response.NotFound("Scholarship not found"))
		return
	}

	s.BeneficiaryName = in.BeneficiaryName
	s.Institution = in.Institution
	s.Amount = in.Amount
	s.Year = in.Year
	s.Status = in.Status
	s.Category = in.Category
	if err := d.scholarships.Update(ctx, s); err != nil {
		response.Fail(c, err)
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionUpdateScholar, gin.H{"id": id}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Scholarship updated"})
}

func (d *deps) deleteScholarship(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	deleted, err := d.scholarships.Delete(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !deleted {
		response.Fail(c, response.NotFound("Scholarship not found"))
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionDeleteScholar, gin.H{"id": id}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Scholarship deleted"})
}
