// Package audit is a best-effort side channel: Record never returns an error
// and never fails the request that triggered it. A lost audit row is logged
// locally and forgotten.
package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
)

const (
	ActionRegister         = "REGISTER"
	ActionLoginSuccess     = "LOGIN_SUCCESS"
	ActionLoginFail        = "LOGIN_FAIL"
	ActionLoginBlock       = "LOGIN_BLOCK"
	ActionCreateProject    = "CREATE_PROJECT"
	ActionUpdateProject    = "UPDATE_PROJECT"
	ActionDeleteProject    = "DELETE_PROJECT"
	ActionBulkUpload       = "BULK_UPLOAD"
	ActionCreateScholar    = "CREATE_SCHOLARSHIP"
	ActionUpdateScholar    = "UPDATE_SCHOLARSHIP"
	ActionDeleteScholar    = "DELETE_SCHOLARSHIP"
	ActionCreateMetric     = "CREATE_METRIC"
	ActionUpdateMetric     = "UPDATE_METRIC"
	ActionCreateUserAdmin  = "CREATE_USER_ADMIN"
	ActionUpdateUser       = "UPDATE_USER"
	ActionUpdateUserStatus = "UPDATE_USER_STATUS"
	ActionDeleteUser       = "DELETE_USER"
	ActionServerError      = "SERVER_ERROR"
)

// Actor identifies who performed an action. ID is nil for pre-session events
// (failed logins, registrations) which are attributed by attempted username.
type Actor struct {
	ID       *uint
	Username string
}

type Recorder struct {
	repo *repo.AuditRepo
	log  *zap.Logger
}

func NewRecorder(r *repo.AuditRepo, log *zap.Logger) *Recorder {
	return &Recorder{repo: r, log: log}
}

// Record appends an audit entry. Marshal or insert failures are swallowed
// after a local log line.
func (r *Recorder) Record(ctx context.Context, actor Actor, action string, details any, ip string) {
	username := actor.Username
	if username == "" {
		username = "anonymous"
	}
	blob, err := json.Marshal(details)
	if err != nil {
		blob = []byte("{}")
	}
	entry := &domain.AuditLog{
		UserID:    actor.ID,
		Username:  username,
		Action:    action,
		Details:   string(blob),
		IPAddress: ip,
	}
	if err := r.repo.Insert(ctx, entry); err != nil {
		r.log.Error("audit write failed",
			zap.String("action", action),
			zap.String("username", username),
			zap.Error(err),
		)
	}
}
