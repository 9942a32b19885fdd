package gatewayapi

import (
	"sync"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
)

// fakeRepository is an in-memory stand-in for gatewaystore.Repository,
// sized for handler tests that need real lookup/uniqueness semantics
// without a MySQL connection.
type fakeRepository struct {
	mu   sync.Mutex
	byID map[string]*gatewaystore.User
	byUN map[string]string
	byAC map[string]string
	keys map[string]*gatewaystore.APIKey
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID: make(map[string]*gatewaystore.User),
		byUN: make(map[string]string),
		byAC: make(map[string]string),
		keys: make(map[string]*gatewaystore.APIKey),
	}
}

func (f *fakeRepository) GetUserByID(id string) (*gatewaystore.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apierr.New(apierr.NotFound, "user %s not found", id)
	}
	return u, nil
}

func (f *fakeRepository) GetUserByUsername(username string) (*gatewaystore.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byUN[username]
	if !ok {
		return nil, apierr.New(apierr.NotFound, "user %s not found", username)
	}
	return f.byID[id], nil
}

func (f *fakeRepository) GetUserByAccountID(accountID string) (*gatewaystore.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byAC[accountID]
	if !ok {
		return nil, apierr.New(apierr.NotFound, "account %s not found", accountID)
	}
	return f.byID[id], nil
}

func (f *fakeRepository) CreateUser(u *gatewaystore.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byUN[u.Username]; exists {
		return apierr.New(apierr.Conflict, "username %s already taken", u.Username)
	}
	f.byID[u.ID] = u
	f.byUN[u.Username] = u.ID
	if u.NEARAccountID != "" {
		f.byAC[u.NEARAccountID] = u.ID
	}
	return nil
}

func (f *fakeRepository) CreateAPIKey(k *gatewaystore.APIKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[k.TokenHash] = k
	return nil
}

func (f *fakeRepository) VerifyAPIKey(tokenHash string) (*gatewaystore.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k, ok := f.keys[tokenHash]
	if !ok || k.Revoked {
		return nil, apierr.New(apierr.Unauthorized, "invalid api key")
	}
	return k, nil
}

func (f *fakeRepository) ListAPIKeys(userID string) ([]*gatewaystore.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*gatewaystore.APIKey
	for _, k := range f.keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeRepository) RevokeAPIKey(id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys {
		if k.ID == id && k.UserID == userID {
			k.Revoked = true
			return nil
		}
	}
	return apierr.New(apierr.NotFound, "api key %s not found", id)
}

func (f *fakeRepository) TouchAPIKey(id string) error {
	return nil
}

func (f *fakeRepository) CreateTaskMirror(t *gatewaystore.TaskMirror) error {
	return nil
}

func (f *fakeRepository) GetTaskMirror(id, userID string) (*gatewaystore.TaskMirror, error) {
	return nil, apierr.New(apierr.NotFound, "task mirror %s not found", id)
}

func (f *fakeRepository) ListTaskMirrors(userID string, page, limit int, sortBy, sortOrder string) ([]*gatewaystore.TaskMirror, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) UpdateTaskMirrorStatus(id, userID, status string) error {
	return nil
}
