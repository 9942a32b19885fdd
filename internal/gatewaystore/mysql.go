package gatewaystore

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// MySQLRepository implements Repository against a MySQL database via gorm
// and go-sql-driver/mysql rather than a hand-rolled database/sql layer.
type MySQLRepository struct {
	db *gorm.DB
}

// NewMySQLRepository opens dsn and runs schema migration for the gateway's
// tables.
func NewMySQLRepository(dsn string) (*MySQLRepository, error) {
	db, err := gorm.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql database")
	}
	db.AutoMigrate(&User{}, &APIKey{}, &TaskMirror{})
	return &MySQLRepository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *MySQLRepository) Close() error {
	return r.db.Close()
}

func (r *MySQLRepository) GetUserByID(id string) (*User, error) {
	var u User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFoundOrErr(err, "user")
	}
	return &u, nil
}

func (r *MySQLRepository) GetUserByUsername(username string) (*User, error) {
	var u User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFoundOrErr(err, "user")
	}
	return &u, nil
}

func (r *MySQLRepository) GetUserByAccountID(accountID string) (*User, error) {
	var u User
	if err := r.db.Where("near_account_id = ?", accountID).First(&u).Error; err != nil {
		return nil, notFoundOrErr(err, "user")
	}
	return &u, nil
}

func (r *MySQLRepository) CreateUser(u *User) error {
	if err := r.db.Create(u).Error; err != nil {
		return apierr.Wrap(apierr.Conflict, err, "create user")
	}
	return nil
}

func (r *MySQLRepository) CreateAPIKey(k *APIKey) error {
	if err := r.db.Create(k).Error; err != nil {
		return apierr.Wrap(apierr.Internal, err, "create api key")
	}
	return nil
}

func (r *MySQLRepository) VerifyAPIKey(tokenHash string) (*APIKey, error) {
	var k APIKey
	if err := r.db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&k).Error; err != nil {
		return nil, notFoundOrErr(err, "api key")
	}
	if time.Now().After(k.ExpiresAt) {
		return nil, apierr.New(apierr.Unauthorized, "api key has expired")
	}
	return &k, nil
}

func (r *MySQLRepository) ListAPIKeys(userID string) ([]*APIKey, error) {
	var keys []*APIKey
	if err := r.db.Where("user_id = ? AND revoked = ?", userID, false).Find(&keys).Error; err != nil {
		return nil, apierr.Wrap(apierr.Internal, err, "list api keys")
	}
	return keys, nil
}

func (r *MySQLRepository) RevokeAPIKey(id, userID string) error {
	res := r.db.Model(&APIKey{}).Where("id = ? AND user_id = ?", id, userID).Update("revoked", true)
	if res.Error != nil {
		return apierr.Wrap(apierr.Internal, res.Error, "revoke api key")
	}
	if res.RowsAffected == 0 {
		return apierr.New(apierr.NotFound, "api key %s not found", id)
	}
	return nil
}

func (r *MySQLRepository) TouchAPIKey(id string) error {
	now := time.Now()
	return r.db.Model(&APIKey{}).Where("id = ?", id).Update("last_used_at", &now).Error
}

func (r *MySQLRepository) CreateTaskMirror(t *TaskMirror) error {
	if err := r.db.Create(t).Error; err != nil {
		return apierr.Wrap(apierr.Internal, err, "create task mirror")
	}
	return nil
}

func (r *MySQLRepository) GetTaskMirror(id, userID string) (*TaskMirror, error) {
	var t TaskMirror
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		return nil, notFoundOrErr(err, "task")
	}
	return &t, nil
}

// taskMirrorSortColumns whitelists the columns ListTaskMirrors accepts for
// sort_by; anything else falls back to created_at rather than reaching
// gorm's Order() as a raw, attacker-controlled SQL fragment.
var taskMirrorSortColumns = map[string]bool{
	"created_at":    true,
	"status":        true,
	"task_type":     true,
	"coord_task_id": true,
}

func (r *MySQLRepository) ListTaskMirrors(userID string, page, limit int, sortBy, sortOrder string) ([]*TaskMirror, int, error) {
	if !taskMirrorSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	var total int
	if err := r.db.Model(&TaskMirror{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, apierr.Wrap(apierr.Internal, err, "count task mirrors")
	}

	var tasks []*TaskMirror
	offset := (page - 1) * limit
	order := fmt.Sprintf("%s %s", sortBy, sortOrder)
	if err := r.db.Where("user_id = ?", userID).Order(order).Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, 0, apierr.Wrap(apierr.Internal, err, "list task mirrors")
	}
	return tasks, total, nil
}

func (r *MySQLRepository) UpdateTaskMirrorStatus(id, userID, status string) error {
	res := r.db.Model(&TaskMirror{}).Where("id = ? AND user_id = ?", id, userID).Update("status", status)
	if res.Error != nil {
		return apierr.Wrap(apierr.Internal, res.Error, "update task mirror status")
	}
	if res.RowsAffected == 0 {
		return apierr.New(apierr.NotFound, "task %s not found", id)
	}
	return nil
}

func notFoundOrErr(err error, what string) error {
	if err == gorm.ErrRecordNotFound {
		return apierr.New(apierr.NotFound, "%s not found", what)
	}
	return apierr.Wrap(apierr.Internal, err, "query %s", what)
}
