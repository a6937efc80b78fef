package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/client/apitest"
	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// ---- helpers ----

var (
	alice = models.User{ID: 1, Username: "alice", Email: "alice@example.com", CreatedAt: "2021-01-01"}
	bob   = models.User{ID: 2, Username: "bob", Email: "bob@example.com", CreatedAt: "2021-01-02"}
	carol = models.User{ID: 3, Username: "carol", Email: "carol@example.com", CreatedAt: "2021-01-03"}
)

func newDirectory(t *testing.T, seed ...models.User) (Directory, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t, seed...)
	c, err := client.NewHTTPClient(srv.BaseURL(), &http.Client{Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	return NewDirectory(c, nil), srv
}

func loaded(t *testing.T, seed ...models.User) (Directory, *apitest.Server) {
	t.Helper()
	d, srv := newDirectory(t, seed...)
	require.NoError(t, d.Load(context.Background()))
	require.Empty(t, diff(seed, d.Users()))
	return d, srv
}

func diff(want, got []models.User) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// ---- fake client ----

// blockingClient parks List and Delete until release is closed.
type blockingClient struct {
	client.Client

	started chan struct{}
	release chan struct{}
}

func newBlockingClient() *blockingClient {
	return &blockingClient{started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (b *blockingClient) List(ctx context.Context) ([]models.User, error) {
	b.started <- struct{}{}
	<-b.release
	return []models.User{alice}, nil
}

func (b *blockingClient) Delete(ctx context.Context, id int64) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

// ---- load ----

func TestLoad_ReplacesListInServerOrder(t *testing.T) {
	d, _ := newDirectory(t, carol, alice, bob)
	assert.Empty(t, d.Users())
	assert.False(t, d.Loading())

	require.NoError(t, d.Load(context.Background()))

	assert.Empty(t, diff([]models.User{carol, alice, bob}, d.Users()))
	assert.False(t, d.Loading())
}

func TestLoad_Scenario_SingleChineseUser(t *testing.T) {
	zs := models.User{ID: 1, Username: "张三", Email: "zhangsan@example.com", CreatedAt: "2021-01-01"}
	d, _ := newDirectory(t, zs)

	require.NoError(t, d.Load(context.Background()))

	assert.Equal(t, []models.User{zs}, d.Users())
	assert.False(t, d.Loading())
}

func TestLoad_FailureKeepsState(t *testing.T) {
	d, srv := loaded(t, alice, bob)
	before := d.Users()

	srv.FailNext(http.MethodGet, "/users", http.StatusInternalServerError)
	err := d.Load(context.Background())

	var se *client.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Empty(t, diff(before, d.Users()))
	assert.False(t, d.Loading())
}

func TestLoad_FirstLoadFailureLeavesEmpty(t *testing.T) {
	d, srv := newDirectory(t, alice)
	srv.FailNext(http.MethodGet, "/users", http.StatusServiceUnavailable)

	require.Error(t, d.Load(context.Background()))
	assert.Empty(t, d.Users())
}

func TestLoad_LoadingFlagWhileInFlight(t *testing.T) {
	bc := newBlockingClient()
	d := NewDirectory(bc, nil)

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background()) }()

	<-bc.started
	assert.True(t, d.Loading())

	err := d.Load(context.Background())
	require.ErrorIs(t, err, ErrInFlight)

	close(bc.release)
	require.NoError(t, <-done)
	assert.False(t, d.Loading())
	assert.Equal(t, []models.User{alice}, d.Users())
}

// ---- add ----

func TestAdd_Scenario_AppendsServerRecord(t *testing.T) {
	d, srv := loaded(t, alice)
	srv.SetNextID(42)
	srv.SetClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })

	u, err := d.Add(context.Background(), "Bob", "bob@example.com")
	require.NoError(t, err)

	want := models.User{ID: 42, Username: "Bob", Email: "bob@example.com", CreatedAt: "2024-01-01T00:00:00Z"}
	assert.Equal(t, want, u)
	assert.Empty(t, diff([]models.User{alice, want}, d.Users()))

	require.Equal(t, 1, srv.Count(http.MethodPost, "/users"))
	assert.JSONEq(t, `{"username":"Bob","email":"bob@example.com"}`, string(srv.Requests()[1].Body))
}

func TestAdd_ValidPairs_OneRequestEach(t *testing.T) {
	inputs := []models.UserInput{
		{Username: "Bo", Email: "b@x.io"},
		{Username: "张三", Email: "zhangsan@example.com"},
		{Username: "a.long_name-1", Email: "first.last+tag@sub.example.org"},
	}
	d, srv := newDirectory(t)

	for i, in := range inputs {
		u, err := d.Add(context.Background(), in.Username, in.Email)
		require.NoError(t, err)
		assert.Equal(t, in.Username, u.Username)
		assert.Equal(t, in.Email, u.Email)
		assert.Equal(t, i+1, srv.Count(http.MethodPost, "/users"))
		assert.Len(t, d.Users(), i+1)
	}
	assert.Empty(t, diff(srv.Users(), d.Users()))
}

func TestAdd_InvalidInput_NoRequest(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{"empty username", "", "bob@example.com", models.FieldUsername},
		{"empty email", "Bob", "", models.FieldEmail},
		{"short username", "B", "bob@example.com", models.FieldUsername},
		{"malformed email", "Bob", "bob@", models.FieldEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, srv := newDirectory(t)

			_, err := d.Add(context.Background(), tt.username, tt.email)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Empty(t, srv.Requests())
			assert.Empty(t, d.Users())
		})
	}
}

func TestAdd_ServerFailure_NoInsert(t *testing.T) {
	d, srv := loaded(t, alice)
	srv.FailNext(http.MethodPost, "/users", http.StatusConflict)

	_, err := d.Add(context.Background(), "Bob", "bob@example.com")

	var se *client.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []models.User{alice}, d.Users())
}

// ---- update ----

func TestUpdate_ReplacesOnlyMatchingRecord(t *testing.T) {
	d, srv := loaded(t, alice, bob, carol)

	u, err := d.Update(context.Background(), bob.ID, "  Robert ", " rob@example.com ")
	require.NoError(t, err)

	want := models.User{ID: bob.ID, Username: "Robert", Email: "rob@example.com", CreatedAt: bob.CreatedAt}
	assert.Equal(t, want, u)
	assert.Empty(t, diff([]models.User{alice, want, carol}, d.Users()))

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/users/2", last.Path)
	assert.JSONEq(t, `{"username":"Robert","email":"rob@example.com"}`, string(last.Body))
}

func TestUpdate_BlankInput_NoRequest(t *testing.T) {
	d, srv := loaded(t, alice)
	n := len(srv.Requests())

	_, err := d.Update(context.Background(), alice.ID, "   ", "a@b.c")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, models.FieldUsername, ve.Field)

	_, err = d.Update(context.Background(), alice.ID, "alice", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, models.FieldEmail, ve.Field)

	assert.Len(t, srv.Requests(), n)
	assert.Equal(t, []models.User{alice}, d.Users())
}

func TestUpdate_FailureKeepsState(t *testing.T) {
	d, srv := loaded(t, alice, bob)
	srv.FailNext(http.MethodPut, "/users/1", http.StatusInternalServerError)

	_, err := d.Update(context.Background(), alice.ID, "x-alice", "x@example.com")
	require.Error(t, err)
	assert.Empty(t, diff([]models.User{alice, bob}, d.Users()))

	_, err = d.Update(context.Background(), 99, "ghost", "ghost@example.com")
	var se *client.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestUpdate_UnknownLocally_StateUnchanged(t *testing.T) {
	d, srv := loaded(t, alice)

	// user 20 is created behind the directory's back
	srv.SetNextID(20)
	_, err := mustClient(t, srv).Create(context.Background(), models.UserInput{Username: "other", Email: "o@example.com"})
	require.NoError(t, err)

	_, err = d.Update(context.Background(), 20, "other2", "o2@example.com")
	require.NoError(t, err)
	assert.Equal(t, []models.User{alice}, d.Users())
}

func mustClient(t *testing.T, srv *apitest.Server) *client.HTTPClient {
	t.Helper()
	c, err := client.NewHTTPClient(srv.BaseURL(), nil, nil)
	require.NoError(t, err)
	return c
}

// ---- get ----

func TestGet_DoesNotMutate(t *testing.T) {
	d, _ := loaded(t, alice, bob)

	u, err := d.Get(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, u)
	assert.Empty(t, diff([]models.User{alice, bob}, d.Users()))

	_, err = d.Get(context.Background(), 404)
	require.Error(t, err)
}

// ---- delete ----

func TestDelete_RemovesExactlyThatRecord(t *testing.T) {
	d, srv := loaded(t, alice, bob, carol)

	require.NoError(t, d.Delete(context.Background(), bob.ID))

	assert.Empty(t, diff([]models.User{alice, carol}, d.Users()))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/users/2"))
}

func TestDelete_FailureKeepsState(t *testing.T) {
	d, srv := loaded(t, alice, bob)
	srv.FailNext(http.MethodDelete, "/users/1", http.StatusInternalServerError)

	require.Error(t, d.Delete(context.Background(), alice.ID))
	assert.Empty(t, diff([]models.User{alice, bob}, d.Users()))
}

func TestDelete_NetworkFailureKeepsState(t *testing.T) {
	d, srv := loaded(t, alice)
	srv.Close()

	err := d.Delete(context.Background(), alice.ID)
	require.True(t, errors.Is(err, client.ErrUnavailable), "got %v", err)
	assert.Equal(t, []models.User{alice}, d.Users())
}

func TestDelete_SecondCallWhileInFlight(t *testing.T) {
	bc := newBlockingClient()
	d := NewDirectory(bc, nil)

	done := make(chan error, 1)
	go func() { done <- d.Delete(context.Background(), 1) }()
	<-bc.started

	require.ErrorIs(t, d.Delete(context.Background(), 1), ErrInFlight)

	close(bc.release)
	require.NoError(t, <-done)
}

// ---- misc ----

func TestUsers_ReturnsCopy(t *testing.T) {
	d, _ := loaded(t, alice)
	got := d.Users()
	got[0].Username = "mutated"
	assert.Equal(t, "alice", d.Users()[0].Username)
}

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "load", opLoad.String())
	assert.Equal(t, "delete", opDelete.String())
}
