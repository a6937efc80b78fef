package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

// ErrInFlight is returned when an operation of the same kind has not yet
// completed. Nothing is sent in that case.
var ErrInFlight = errors.New("operation already in progress")

// Directory keeps a local copy of the server's user list in step with the
// server. State changes only after the server confirms an operation; a failed
// operation leaves the list exactly as it was.
type Directory interface {
	// Load replaces the list with the server's, in server order.
	Load(ctx context.Context) error
	// Get fetches one user without touching the list.
	Get(ctx context.Context, id int64) (models.User, error)
	// Add validates the input, creates the user and appends the server's record.
	Add(ctx context.Context, username, email string) (models.User, error)
	// Update trims and checks the input, updates the user and replaces the
	// record with the same id.
	Update(ctx context.Context, id int64, username, email string) (models.User, error)
	// Delete removes the user. Callers are expected to have confirmed.
	Delete(ctx context.Context, id int64) error

	Users() []models.User
	Loading() bool
}

type opKind int

const (
	opLoad opKind = iota
	opGet
	opAdd
	opUpdate
	opDelete
)

func (o opKind) String() string {
	return [...]string{"load", "get", "add", "update", "delete"}[o]
}

type directory struct {
	client client.Client
	log    logging.Logger

	mu       sync.Mutex
	users    []models.User
	loading  bool
	inFlight [opDelete + 1]bool
}

func NewDirectory(c client.Client, log logging.Logger) Directory {
	if log == nil {
		log = logging.Discard()
	}
	return &directory{client: c, log: log, users: []models.User{}}
}

// begin marks op as in flight, failing if it already is.
func (d *directory) begin(op opKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight[op] {
		return fmt.Errorf("%s: %w", op, ErrInFlight)
	}
	d.inFlight[op] = true
	if op == opLoad {
		d.loading = true
	}
	return nil
}

// end must run once per successful begin. apply, when non-nil, mutates the
// list under the lock.
func (d *directory) end(op opKind, apply func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if apply != nil {
		apply()
	}
	d.inFlight[op] = false
	if op == opLoad {
		d.loading = false
	}
}

func (d *directory) Load(ctx context.Context) error {
	if err := d.begin(opLoad); err != nil {
		return err
	}

	users, err := d.client.List(ctx)
	if err != nil {
		d.end(opLoad, nil)
		d.log.Warn(ctx, "load failed", "error", err)
		return err
	}

	d.end(opLoad, func() {
		d.users = slices.Clone(users)
	})
	d.log.Info(ctx, "users loaded", "count", len(users))
	return nil
}

func (d *directory) Get(ctx context.Context, id int64) (models.User, error) {
	if err := d.begin(opGet); err != nil {
		return models.User{}, err
	}
	defer d.end(opGet, nil)

	u, err := d.client.Get(ctx, id)
	if err != nil {
		d.log.Warn(ctx, "get failed", "id", id, "error", err)
		return models.User{}, err
	}
	return u, nil
}

func (d *directory) Add(ctx context.Context, username, email string) (models.User, error) {
	in := models.UserInput{Username: username, Email: email}
	if err := models.ValidateNew(in); err != nil {
		return models.User{}, err
	}
	if err := d.begin(opAdd); err != nil {
		return models.User{}, err
	}

	u, err := d.client.Create(ctx, in)
	if err != nil {
		d.end(opAdd, nil)
		d.log.Warn(ctx, "add failed", "error", err)
		return models.User{}, err
	}

	d.end(opAdd, func() {
		d.users = append(d.users, u)
	})
	d.log.Info(ctx, "user added", "id", u.ID)
	return u, nil
}

func (d *directory) Update(ctx context.Context, id int64, username, email string) (models.User, error) {
	in, err := models.NormalizeUpdate(models.UserInput{Username: username, Email: email})
	if err != nil {
		return models.User{}, err
	}
	if err := d.begin(opUpdate); err != nil {
		return models.User{}, err
	}

	u, err := d.client.Update(ctx, id, in)
	if err != nil {
		d.end(opUpdate, nil)
		d.log.Warn(ctx, "update failed", "id", id, "error", err)
		return models.User{}, err
	}

	d.end(opUpdate, func() {
		if i := d.indexOf(id); i >= 0 {
			d.users[i] = u
		}
	})
	d.log.Info(ctx, "user updated", "id", id)
	return u, nil
}

func (d *directory) Delete(ctx context.Context, id int64) error {
	if err := d.begin(opDelete); err != nil {
		return err
	}

	if err := d.client.Delete(ctx, id); err != nil {
		d.end(opDelete, nil)
		d.log.Warn(ctx, "delete failed", "id", id, "error", err)
		return err
	}

	d.end(opDelete, func() {
		if i := d.indexOf(id); i >= 0 {
			d.users = slices.Delete(d.users, i, i+1)
		}
	})
	d.log.Info(ctx, "user deleted", "id", id)
	return nil
}

func (d *directory) Users() []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.users)
}

func (d *directory) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// indexOf must be called with mu held.
func (d *directory) indexOf(id int64) int {
	return slices.IndexFunc(d.users, func(u models.User) bool { return u.ID == id })
}
