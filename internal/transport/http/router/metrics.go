package router

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
)

func mountMetrics(api *gin.RouterGroup, d *deps) {
	api.GET("/metrics", d.dashboardMetrics)
	api.GET("/impact-metrics", func(c *gin.Context) {
		d.cached(c, "impact-metrics", d.impactMetrics)
	})
	api.GET("/communities", func(c *gin.Context) {
		d.cached(c, "communities", d.communities)
	})
	api.GET("/completion-rates", func(c *gin.Context) {
		d.cached(c, "completion-rates", d.completionRates)
	})

	admin := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.IsSuperAdmin, "Access denied: Super Admin only"))
	admin.PUT("/metrics", d.upsertMetric)
}

// dashboardMetrics combines project counts, the stored metric rows and two
// synthesized entries: "Scholarships" folds dedicated scholarship records
// together with sector=scholarship projects, and "Total Investment" sums
// parseable project costs plus scholarship amounts.
func (d *deps) dashboardMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := d.projects.Counts(ctx)
	if err != nil {
		response.Fail(c, err)
		return
	}
	rows, err := d.metrics.List(ctx, "")
	if err != nil {
		response.Fail(c, err)
		return
	}
	metrics := make(map[string]any, len(rows)+2)
	for _, m := range rows {
		metrics[m.Label] = m.Val
	}

	scholCount, scholAmount, err := d.scholarships.Stats(ctx)
	if err != nil {
		response.Fail(c, err)
		return
	}
	projSchol, err := d.projects.CountBySector(ctx, "scholarship")
	if err != nil {
		response.Fail(c, err)
		return
	}
	metrics["Scholarships"] = strconv.FormatInt(scholCount+projSchol, 10)

	projCost, err := d.projects.TotalCost(ctx, "")
	if err != nil {
		response.Fail(c, err)
		return
	}
	metrics["Total Investment"] = projCost + scholAmount

	c.JSON(http.StatusOK, gin.H{"counts": counts, "metrics": metrics})
}

func (d *deps) upsertMetric(c *gin.Context) {
	var in struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Label == "" || in.Value == "" {
		response.Fail(c, response.BadRequest("Label and value required"))
		return
	}

	ctx := c.Request.Context()
	created, err := d.metrics.Upsert(ctx, in.Label, in.Value)
	if err != nil {
		response.Fail(c, err)
		return
	}
	d.Cache.Clear(ctx)
	action, msg := audit.ActionUpdateMetric, "Metric updated"
	if created {
		action, msg = audit.ActionCreateMetric, "Metric created"
	}
	d.Audit.Record(ctx, mdw.Actor(c), action,
		gin.H{"label": in.Label, "value": in.Value}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (d *deps) impactMetrics(c *gin.Context) (any, error) {
	ctx := c.Request.Context()
	sector := c.Query("sector")

	rows, err := d.metrics.List(ctx, sector)
	if err != nil {
		return nil, err
	}
	total, err := d.projects.TotalCost(ctx, sector)
	if err != nil {
		return nil, err
	}
	rows = append(rows, domain.ImpactMetric{
		Label: "Sector Investment",
		Val:   formatGHS(total),
	})
	return gin.H{"metrics": rows}, nil
}

// formatGHS renders an amount the way the dashboard shows headline money:
// millions and thousands abbreviated, smaller values comma-grouped.
func formatGHS(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("GHS %.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("GHS %.1fK", v/1_000)
	default:
		return "GHS " + groupThousands(v)
	}
}

func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	if hasFrac {
		return intPart + "." + frac
	}
	return intPart
}

func (d *deps) communities(c *gin.Context) (any, error) {
	stats, err := d.projects.Communities(c.Request.Context())
	if err != nil {
		return nil, err
	}
	out := make([]gin.H, 0, len(stats))
	for _, s := range stats {
		out = append(out, gin.H{
			"name":      s.Name,
			"completed": s.Completed,
			"ongoing":   s.Ongoing,
			"update":    "Just now",
		})
	}
	return out, nil
}

func (d *deps) completionRates(c *gin.Context) (any, error) {
	rows, err := d.metrics.CompletionRates(c.Request.Context(), c.Query("sector"))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.CompletionRate{}
	}
	return gin.H{"rates": rows}, nil
}
