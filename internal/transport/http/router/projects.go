package router

import (
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/ingest"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
	"github.com/hamdansalifupolibu/hondandaawa/pkg/utils"
)

func mountProjects(api *gin.RouterGroup, d *deps) {
	api.GET("/projects", func(c *gin.Context) {
		d.cached(c, "projects", d.listProjects)
	})
	api.GET("/projects/template", d.projectTemplate)
	api.GET("/projects/:id", d.getProject)

	editors := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.CanEdit, "Access denied: Editors only"))
	editors.POST("/projects", d.createProject)
	editors.PUT("/projects/:id", d.updateProject)

	deleters := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.CanDelete, "Access denied: Cannot delete records"))
	deleters.DELETE("/projects/:id", d.deleteProject)

	uploaders := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.CanUpload, "Access denied: Uploaders only"))
	uploaders.POST("/projects/bulk-upload", d.bulkUpload)
}

func (d *deps) listProjects(c *gin.Context) (any, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	f := repo.ProjectFilter{
		Sector:    c.Query("sector"),
		YearStart: c.Query("year_start"),
		YearEnd:   c.Query("year_end"),
		Search:    c.Query("search"),
		Status:    strings.ToLower(c.Query("status")),
		Funding:   c.Query("funding"),
		Page:      page,
		Limit:     limit,
	}
	projects, total, err := d.projects.List(c.Request.Context(), f)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	return gin.H{
		"projects": projects,
		"pagination": gin.H{
			"total":      total,
			"page":       f.Page,
			"limit":      f.Limit,
			"totalPages": int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}, nil
}

func (d *deps) getProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := d.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if p == nil {
		response.Fail(c, response.NotFound("Project not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// saveImage persists an uploaded project image under the public uploads tree
// with a random name, and returns the URL path it will be served at.
func (d *deps) saveImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(d.UploadDir, "projects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(fh.Filename)
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/uploads/projects/" + name, nil
}

// projectFromForm reads the multipart fields shared by create and update.
func projectFromForm(c *gin.Context) domain.Project {
	p := domain.Project{
		Name:             strings.TrimSpace(c.PostForm("name")),
		Locations:        c.PostForm("locations"),
		Sector:           c.PostForm("sector"),
		Year:             c.PostForm("year"),
		Status:           c.PostForm("status"),
		Category:         c.PostForm("category"),
		Community:        c.PostForm("community"),
		ProjectCost:      utils.SanitizeCost(c.PostForm("project_cost")),
		FundingSource:    c.PostForm("funding_source"),
		BeneficiaryCount: c.PostForm("beneficiary_count"),
		Contractor:       c.PostForm("contractor"),
		Description:      c.PostForm("description"),
	}
	if p.Community == "" {
		p.Community = domain.CommunityOf(p.Locations)
	}
	return p
}

func (d *deps) createProject(c *gin.Context) {
	p := projectFromForm(c)
	if p.Name == "" || p.Sector == "" {
		response.Fail(c, response.BadRequest("Name and Sector are required"))
		return
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanned
	}
	if p.Category == "" {
		p.Category = domain.CategoryInfra
	}

	if fh, err := c.FormFile("image"); err == nil {
		url, err := d.saveImage(c, fh)
		if err != nil {
			response.Fail(c, response.Internal("Failed to store image", err))
			return
		}
		p.ImageURL = url
	}

	ctx := c.Request.Context()
	if err := d.projects.Create(ctx, &p); err != nil {
		response.Fail(c, err)
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionCreateProject,
		gin.H{"id": p.ID, "name": p.Name}, c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "message": "Project created", "image_url": p.ImageURL})
}

func (d *deps) updateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := d.projects.FindByID(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if existing == nil {
		response.Fail(c, response.NotFound("Project not found"))
		return
	}

	p := projectFromForm(c)
	p.ID = existing.ID
	p.ImageURL = existing.ImageURL
	p.CreatedAt = existing.CreatedAt
	if fh, err := c.FormFile("image"); err == nil {
		url, err := d.saveImage(c, fh)
		if err != nil {
			response.Fail(c, response.Internal("Failed to store image", err))
			return
		}
		p.ImageURL = url
	}

	if err := d.projects.Update(ctx, &p); err != nil {
		response.Fail(c, err)
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionUpdateProject,
		gin.H{"id": id, "name": p.Name}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

func (d *deps) deleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	archived, err := d.projects.Archive(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !archived {
		response.Fail(c, response.NotFound("Project not found"))
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionDeleteProject, gin.H{"id": id}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Project archived"})
}

func (d *deps) projectTemplate(c *gin.Context) {
	buf, err := ingest.BuildTemplate()
	if err != nil {
		response.Fail(c, response.Internal("Failed to generate template", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ingest.TemplateFilename+`"`)
	c.Data(http.StatusOK, ingest.TemplateContentType, buf.Bytes())
}

func (d *deps) bulkUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.BadRequest("No file uploaded"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, response.BadRequest("No file uploaded"))
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	res, err := d.importer.Import(ctx, f)
	if err != nil {
		if errors.Is(err, ingest.ErrNoHeader) {
			response.Fail(c, response.BadRequest(`Invalid file format. Header row with "Name" and "Sector" not found.`))
			return
		}
		response.Fail(c, response.Internal("Failed to process Excel file", err))
		return
	}
	d.Cache.Clear(ctx)
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionBulkUpload,
		gin.H{"inserted": res.Inserted, "skipped": res.Skipped}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Upload processed", "inserted": res.Inserted, "skipped": res.Skipped})
}
