package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func duplicate(index string) error {
	return &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'clients." + index + "'"}
}

type fakeRepo struct {
	rows      map[string]*models.Client
	insertErr []error
	keyErr    []error
	inserts   int
	lastPatch map[string]any
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: make(map[string]*models.Client)} }

func (f *fakeRepo) List(_ context.Context, tenantID string) ([]models.Client, error) {
	out := []models.Client{}
	for _, c := range f.rows {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Insert(_ context.Context, c *models.Client) error {
	f.inserts++
	if len(f.insertErr) > 0 {
		err := f.insertErr[0]
		f.insertErr = f.insertErr[1:]
		if err != nil {
			return err
		}
	}
	c.ID = uuid.NewString()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, tenantID, clientID string, patch map[string]any) (*models.Client, error) {
	f.lastPatch = patch
	c, ok := f.rows[clientID]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	if v, ok := patch["status"].(string); ok {
		c.Status = v
	}
	if v, ok := patch["name"].(string); ok {
		c.Name = v
	}
	if v, ok := patch["auth_key"].(string); ok {
		c.AuthKey = v
	}
	if v, ok := patch["updated_by"]; ok {
		c.UpdatedBy = v.(*string)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) SetAuthKey(ctx context.Context, tenantID, clientID, authKey string, updatedBy *string) (*models.Client, error) {
	if len(f.keyErr) > 0 {
		err := f.keyErr[0]
		f.keyErr = f.keyErr[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.Update(ctx, tenantID, clientID, map[string]any{"auth_key": authKey, "updated_by": updatedBy})
}

func (f *fakeRepo) ListEnabledIDs(_ context.Context, tenantID string) ([]string, error) {
	ids := []string{}
	for id, c := range f.rows {
		if c.TenantID == tenantID && c.Status == models.ClientEnabled {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var authKeyPattern = regexp.MustCompile(`^ck1_[0-9a-z]{10}_[A-Za-z0-9_-]+$`)

func TestNewAuthKeyShape(t *testing.T) {
	for _, now := range []time.Time{time.Now(), time.UnixMilli(1)} {
		key := NewAuthKey(now)
		if len(key) != authKeyLength {
			t.Fatalf("len = %d", len(key))
		}
		if !authKeyPattern.MatchString(key) {
			t.Fatalf("key %q has unexpected shape", key)
		}
	}
	if NewAuthKey(time.UnixMilli(1))[4:14] != "0000000001" {
		t.Fatal("timestamp should be zero padded")
	}
	if NewAuthKey(time.Now()) == NewAuthKey(time.Now()) {
		t.Fatal("keys should differ")
	}
}

func TestNewCode(t *testing.T) {
	if c := NewCode("desktop"); !regexp.MustCompile(`^desktop-[0-9a-f]{8}$`).MatchString(c) {
		t.Fatalf("code = %q", c)
	}
	if c := NewCode(strings.Repeat("x", 60)); len(c) != maxCodeLength {
		t.Fatalf("len = %d", len(c))
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	rec := &events.Recorder{}
	svc := NewService(repo, rec, zap.NewNop())

	c, err := svc.Create(context.Background(), "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "Laptop"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != models.ClientEnabled || !strings.HasPrefix(c.Code, "cli-") || len(c.AuthKey) != authKeyLength {
		t.Fatalf("client = %+v", c)
	}
	if c.CreatedBy == nil || *c.CreatedBy != "u1" || c.UpdatedBy == nil || *c.UpdatedBy != "u1" {
		t.Fatalf("audit columns = %v %v", c.CreatedBy, c.UpdatedBy)
	}
	if e, ok := rec.Last(events.ClientCreated); !ok || e.Payload["clientId"] != c.ID {
		t.Fatalf("created event = %+v", e)
	}
}

func TestCreateRetriesGeneratedCollisions(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = []error{duplicate(idxTenantCode), duplicate(idxTenantAuthKey)}
	svc := NewService(repo, nil, nil)

	if _, err := svc.Create(context.Background(), "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "n"}); err != nil {
		t.Fatal(err)
	}
	if repo.inserts != 3 {
		t.Fatalf("inserts = %d, want 3", repo.inserts)
	}
}

func TestCreateCallerCodeCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = []error{duplicate(idxTenantCode)}
	svc := NewService(repo, nil, nil)
	code := "mine"

	_, err := svc.Create(context.Background(), "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "n", Code: &code})
	if !errors.Is(err, apperr.ErrClientCodeInUse) {
		t.Fatalf("err = %v", err)
	}
	if repo.inserts != 1 {
		t.Fatalf("inserts = %d", repo.inserts)
	}
}

func TestCreateKeyExhaustion(t *testing.T) {
	repo := newFakeRepo()
	for i := 0; i < createAttempts; i++ {
		repo.insertErr = append(repo.insertErr, duplicate(idxTenantAuthKey))
	}
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "n"})
	if !errors.Is(err, apperr.ErrClientKeyInUse) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	c, _ := svc.Create(ctx, "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "n"})

	var dto UpdateClientDTO
	if err := json.Unmarshal([]byte(`{"status":"disabled","description":null}`), &dto); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Update(ctx, "t1", "u2", c.ID, dto)
	if err != nil || got.Status != models.ClientDisabled {
		t.Fatalf("update = %+v %v", got, err)
	}
	if v, ok := repo.lastPatch["description"]; !ok || v.(*string) != nil {
		t.Fatalf("description patch = %v", repo.lastPatch)
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != "u2" || *got.CreatedBy != "u1" {
		t.Fatalf("audit columns = %v %v", got.CreatedBy, got.UpdatedBy)
	}

	if _, err := svc.Update(ctx, "t2", "u2", c.ID, dto); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("other tenant err = %v", err)
	}
	if _, err := svc.Update(ctx, "t1", "u2", c.ID, UpdateClientDTO{}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty patch err = %v", err)
	}
	var bad UpdateClientDTO
	_ = json.Unmarshal([]byte(`{"status":"gone"}`), &bad)
	if _, err := svc.Update(ctx, "t1", "u2", c.ID, bad); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("bad status err = %v", err)
	}
}

func TestRotateKey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	c, _ := svc.Create(ctx, "t1", "u1", CreateClientDTO{ClientType: "cli", Name: "n"})

	repo.keyErr = []error{duplicate(idxTenantAuthKey)}
	got, err := svc.RotateKey(ctx, "t1", "u3", c.ID)
	if err != nil || got.AuthKey == c.AuthKey {
		t.Fatalf("rotate = %+v %v", got, err)
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != "u3" {
		t.Fatalf("rotate updated_by = %v", got.UpdatedBy)
	}
	if _, err := svc.RotateKey(ctx, "t1", "u3", "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestCreateWithoutUserLeavesAuditNull(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)
	c, err := svc.Create(context.Background(), "t1", "", CreateClientDTO{ClientType: "cli", Name: "n"})
	if err != nil {
		t.Fatal(err)
	}
	if c.CreatedBy != nil || c.UpdatedBy != nil {
		t.Fatalf("audit columns = %v %v", c.CreatedBy, c.UpdatedBy)
	}
}

func TestHandlerRecordsCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeRepo()
	r := gin.New()
	NewHandler(NewService(repo, nil, nil)).RegisterRoutes(r.Group("/api"), func(c *gin.Context) {
		c.Set(middleware.ContextKeyTenantID, "t1")
		c.Set(middleware.ContextKeyUserID, "u1")
		c.Next()
	})
	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/clients", `{"clientType":"cli","name":"Laptop"}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"createdBy":"u1"`) {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var id string
	for k := range repo.rows {
		id = k
	}
	if w := send(http.MethodPatch, "/api/clients/"+id, `{"status":"disabled"}`); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"updatedBy":"u1"`) {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}
	if w := send(http.MethodPost, "/api/clients/missing/rotate-key", ""); w.Code != http.StatusNotFound {
		t.Fatalf("rotate missing = %d", w.Code)
	}
}
