package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	mdw "github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/middleware"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/response"
	"github.com/hamdansalifupolibu/hondandaawa/pkg/utils"
)

// mountUsers wires the account administration surface. Everything here is
// super-admin only.
func mountUsers(api *gin.RouterGroup, d *deps) {
	admin := api.Group("", mdw.RequireToken(d.JWT),
		mdw.RequireRole(policy.IsSuperAdmin, "Access denied: Super Admin only"))
	admin.GET("/users", d.listUsers)
	admin.POST("/users", d.createUser)
	admin.PUT("/users/:id", d.updateUser)
	admin.PUT("/users/:id/status", d.updateUserStatus)
	admin.DELETE("/users/:id", d.deleteUser)
}

func (d *deps) listUsers(c *gin.Context) {
	users, err := d.users.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// createUser is the admin-side account path: role is taken as given and the
// account starts out approved, unlike self-registration.
func (d *deps) createUser(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Password == "" || in.Role == "" {
		response.Fail(c, response.BadRequest("All fields required"))
		return
	}
	if !utils.ValidPassword(in.Password) {
		response.Fail(c, response.BadRequest("Password lacking complexity"))
		return
	}
	if !policy.ValidRole(in.Role) {
		response.Fail(c, response.BadRequest("Invalid role"))
		return
	}

	u := &domain.User{
		Username:     in.Username,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         in.Role,
		Status:       domain.StatusApproved,
	}
	ctx := c.Request.Context()
	if err := d.users.Create(ctx, u); err != nil {
		if repo.IsDuplicate(err) {
			response.Fail(c, response.BadRequest("Username likely exists"))
			return
		}
		response.Fail(c, err)
		return
	}
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionCreateUserAdmin,
		gin.H{"username": u.Username, "role": u.Role}, c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"message": "User created"})
}

func (d *deps) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in struct {
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, response.BadRequest("No changes provided"))
		return
	}

	fields := map[string]any{}
	if in.Password != "" {
		if !utils.ValidPassword(in.Password) {
			response.Fail(c, response.BadRequest("Password must be 8+ chars and include number/special char."))
			return
		}
		fields["password"] = utils.HashPassword(in.Password)
	}
	if in.Role != "" {
		if !policy.ValidRole(in.Role) {
			response.Fail(c, response.BadRequest("Invalid role"))
			return
		}
		fields["role"] = in.Role
	}
	if len(fields) == 0 {
		response.Fail(c, response.BadRequest("No changes provided"))
		return
	}

	ctx := c.Request.Context()
	updated, err := d.users.UpdateFields(ctx, id, fields)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !updated {
		response.Fail(c, response.NotFound("User not found"))
		return
	}
	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionUpdateUser,
		gin.H{"targetId": id, "fields": changed}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (d *deps) updateUserStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, response.BadRequest("Invalid status"))
		return
	}
	valid := false
	for _, s := range domain.UserStatuses {
		if in.Status == s {
			valid = true
			break
		}
	}
	if !valid {
		response.Fail(c, response.BadRequest("Invalid status"))
		return
	}

	ctx := c.Request.Context()
	updated, err := d.users.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !updated {
		response.Fail(c, response.NotFound("User not found"))
		return
	}
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionUpdateUserStatus,
		gin.H{"targetId": id, "status": in.Status}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "User status updated to " + in.Status})
}

func (d *deps) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	deleted, err := d.users.Delete(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !deleted {
		response.Fail(c, response.NotFound("User not found"))
		return
	}
	d.Audit.Record(ctx, mdw.Actor(c), audit.ActionDeleteUser,
		gin.H{"targetId": id}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
