package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
	"github.com/hamdansalifupolibu/hondandaawa/pkg/utils"
)

func mountAuth(api *gin.RouterGroup, d *deps) {
	// Tighter per-IP budget on the credential routes only.
	limited := api.Group("")
	limited.Use(mdw.RateLimitPerIP(0.011, 10)) // ~10 attempts per 15 minutes

	type registerIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	limited.POST("/register", func(c *gin.Context) {
		var in registerIn
		if err := c.ShouldBindJSON(&in); err != nil {
			response.Fail(c, response.BadRequest("Username and password required"))
			return
		}
		if !utils.ValidPassword(in.Password) {
			response.Fail(c, response.BadRequest("Password does not meet complexity requirements."))
			return
		}

		// Self-registrations land in pending; unknown roles collapse to the
		// non-loginable viewer role.
		role := policy.RolePublicViewer
		if policy.Elevated(in.Role) {
			role = in.Role
		}
		u := &domain.User{
			Username:     strings.TrimSpace(in.Username),
			PasswordHash: utils.HashPassword(in.Password),
			Role:         role,
			Status:       domain.StatusPending,
		}
		if err := d.users.Create(c.Request.Context(), u); err != nil {
			if repo.IsDuplicate(err) {
				response.Fail(c, response.BadRequest("Username already exists"))
				return
			}
			response.Fail(c, err)
			return
		}
		d.Audit.Record(c.Request.Context(), audit.Actor{Username: u.Username}, audit.ActionRegister,
			gin.H{"username": u.Username}, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"message": "Registration successful. Please wait for admin approval."})
	})

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	limited.POST("/login", func(c *gin.Context) {
		var in loginIn
		if err := c.ShouldBindJSON(&in); err != nil {
			response.Fail(c, response.BadRequest("Username and password required"))
			return
		}
		ctx := c.Request.Context()
		ip := c.ClientIP()

		u, err := d.users.FindByUsername(ctx, in.Username)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if u == nil {
			// Burn a hash verification anyway so unknown usernames cost the
			// same as wrong passwords.
			utils.CheckPasswordDummy(in.Password)
			d.Audit.Record(ctx, audit.Actor{Username: in.Username}, audit.ActionLoginFail,
				gin.H{"reason": "User not found"}, ip)
			response.Fail(c, response.BadRequest("Invalid credentials"))
			return
		}

		actor := audit.Actor{ID: &u.ID, Username: u.Username}
		if !policy.CanLogin(u.Role) {
			response.Fail(c, response.Forbidden("Public viewers do not have login access."))
			return
		}
		if u.Status != domain.StatusApproved {
			d.Audit.Record(ctx, actor, audit.ActionLoginBlock, gin.H{"status": u.Status}, ip)
			response.Fail(c, response.Forbidden("Account is pending approval or blocked."))
			return
		}
		if !utils.CheckPassword(in.Password, u.PasswordHash) {
			d.Audit.Record(ctx, actor, audit.ActionLoginFail, gin.H{"reason": "Bad password"}, ip)
			response.Fail(c, response.BadRequest("Invalid credentials"))
			return
		}

		token, err := d.JWT.Issue(u.ID, u.Username, u.Role)
		if err != nil {
			response.Fail(c, response.Internal("issue token failed", err))
			return
		}
		d.Audit.Record(ctx, actor, audit.ActionLoginSuccess, gin.H{}, ip)
		c.JSON(http.StatusOK, gin.H{"token": token, "role": u.Role, "username": u.Username})
	})
}
