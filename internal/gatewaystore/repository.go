package gatewaystore

// Repository is the transactional store the gateway needs: users, API
// keys, and task-mirror CRUD scoped by (id, user_id).
// Implementation is pluggable; MySQLRepository is the only one shipped.
type Repository interface {
	GetUserByID(id string) (*User, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByAccountID(accountID string) (*User, error)
	CreateUser(u *User) error

	CreateAPIKey(k *APIKey) error
	VerifyAPIKey(tokenHash string) (*APIKey, error)
	ListAPIKeys(userID string) ([]*APIKey, error)
	RevokeAPIKey(id, userID string) error
	TouchAPIKey(id string) error

	CreateTaskMirror(t *TaskMirror) error
	GetTaskMirror(id, userID string) (*TaskMirror, error)
	ListTaskMirrors(userID string, page, limit int, sortBy, sortOrder string) ([]*TaskMirror, int, error)
	UpdateTaskMirrorStatus(id, userID, status string) error
}
