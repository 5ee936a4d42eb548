package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/auth"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/cache"
	"github.com/hamdansalifupolibu/hondandaawa/internal/ingest"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
)

type Deps struct {
	Log       *zap.Logger
	DB        *gorm.DB
	JWT       *auth.JWTer
	Cache     *cache.Cache
	Audit     *audit.Recorder
	UploadDir string
}

// deps bundles everything the mount functions close over.
type deps struct {
	Deps
	users        *repo.UserRepo
	projects     *repo.ProjectRepo
	scholarships *repo.ScholarshipRepo
	metrics      *repo.MetricRepo
	importer     *ingest.Importer
}

func NewAPIEngine(d Deps) *gin.Engine {
	dd := &deps{
		Deps:         d,
		users:        repo.NewUserRepo(d.DB),
		projects:     repo.NewProjectRepo(d.DB),
		scholarships: repo.NewScholarshipRepo(d.DB),
		metrics:      repo.NewMetricRepo(d.DB),
	}
	dd.importer = ingest.NewImporter(d.DB, dd.projects)

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		cors.Default(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(30*time.Second),
		ginzap.CustomRecoveryWithZap(d.Log, true, dd.recovered),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", dd.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", d.UploadDir)

	api := r.Group("/api")
	api.GET("/health", dd.health)

	mountAuth(api, dd)
	mountProjects(api, dd)
	mountScholarships(api, dd)
	mountMetrics(api, dd)
	mountUsers(api, dd)

	// Unknown /api routes get the uniform JSON 404.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found. Check route URL."})
			return
		}
		c.Status(http.StatusNotFound)
	})

	return r
}

func (d *deps) health(c *gin.Context) {
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "System healthy"})
}

// recovered is the top-level panic handler: uniform 500 body, error log via
// zap (already emitted by the recovery wrapper) and a best-effort audit row.
func (d *deps) recovered(c *gin.Context, err any) {
	d.Audit.Record(c.Request.Context(), mdw.Actor(c), audit.ActionServerError,
		gin.H{"path": c.Request.URL.Path, "error": toString(err)}, c.ClientIP())
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

func toString(v any) string {
	switch t := v.(type) {
	case error:
		return t.Error()
	case string:
		return t
	default:
		return "panic"
	}
}

// cached serves a read endpoint through the response cache. The key is the
// endpoint family plus the full query string, so every distinct filter
// combination caches separately.
func (d *deps) cached(c *gin.Context, family string, load func(c *gin.Context) (any, error)) {
	key := cache.Key(family, c.Request.URL.Query())
	b, err := d.Cache.GetOrLoad(c.Request.Context(), key, func(context.Context) ([]byte, error) {
		v, e := load(c)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.BadRequest("invalid id"))
		return 0, false
	}
	return uint(id), true
}
