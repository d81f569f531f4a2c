package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/cli"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/usecase/history"
)

type fakeAPI struct {
	mu       sync.Mutex
	auth     []string
	payments []string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method + " " + r.URL.Path {
	case "POST /seefood/ai/pic":
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{
			"seafoodPO":{"seafoodId":3,"seafoodName":"Salmon","seafoodBrief":"Rich in omega-3","seafoodImage":"data:image/png;base64,AAAA"},
			"recipePOList":[{"recipeId":1,"recipeName":"Grilled Salmon","recipeBrief":"Grill for 8 minutes"}],
			"ingredientPOList":[{"ingredientId":9,"ingredientName":"Lemon","ingredientPrice":1.2}]}}`))
	case "POST /seefood/user/login":
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"token":"tok","username":"alice"}}`))
	case "GET /seefood/purchase/getcart":
		_, _ = w.Write([]byte(`{"code":200,"data":[
			{"cartId":11,"seafoodId":3,"count":2,"payed":false,"price":"10.5"},
			{"cartId":12,"seafoodId":3,"count":1,"payed":false,"price":"10.5"}]}`))
	case "GET /seefood/purchase/getingredientcart":
		_, _ = w.Write([]byte(`{"code":200,"data":[{"icartId":21,"ingredient":{"ingredientId":9,"ingredientName":"Lemon"},"count":3,"price":1.5}]}`))
	case "GET /seefood/item/detail/3":
		_, _ = w.Write([]byte(`{"code":200,"data":{"seafood":{"seafoodId":3,"seafoodName":"Salmon"}}}`))
	case "POST /seefood/purchase/gotopaycart":
		f.mu.Lock()
		f.payments = append(f.payments, string(body))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"code":200,"data":1}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"not found"}`))
	}
}

type testEnv struct {
	api      *fakeAPI
	url      string
	storeDir string
}

func newTestEnv(t *testing.T) *testEnv {
	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	return &testEnv{
		api:      api,
		url:      srv.URL,
		storeDir: filepath.Join(t.TempDir(), "store"),
	}
}

// run executes the CLI and returns stdout and the error, if any
func (e *testEnv) run(t *testing.T, args ...string) (string, *cli.Error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{
		"seefood",
		"--api-url", e.url,
		"--store", "file",
		"--store-dir", e.storeDir,
		"--log-level", "error",
	}, args...)

	err := cli.Run(context.Background(), argv, cli.WithIO(strings.NewReader(""), &stdout, &stderr))
	return stdout.String(), err
}

func TestCatchAndHistory(t *testing.T) {
	env := newTestEnv(t)
	image := filepath.Join(t.TempDir(), "fish.png")
	gt.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	out, err := env.run(t, "catch", "--image", image)
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Salmon")
	gt.S(t, out).Contains("Rich in omega-3")
	gt.S(t, out).Contains("Recommended recipes: Grilled Salmon")
	gt.S(t, out).Contains("Lemon")
	gt.S(t, out).NotContains("could not be saved")

	out, err = env.run(t, "history", "list")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Salmon")

	// inline image data is not persisted
	repo, rerr := repository.NewFile(env.storeDir)
	gt.NoError(t, rerr)
	raw, found, rerr := repo.Get(context.Background(), history.StorageKey)
	gt.NoError(t, rerr)
	gt.True(t, found)
	gt.S(t, raw).NotContains("data:image")
	gt.S(t, raw).Contains("file://")

	// same species again keeps a single entry
	_, err = env.run(t, "catch", "--image", image)
	gt.True(t, err == nil)
	var records []*model.HistoryRecord
	raw, _, rerr = repo.Get(context.Background(), history.StorageKey)
	gt.NoError(t, rerr)
	gt.NoError(t, json.Unmarshal([]byte(raw), &records))
	gt.A(t, records).Length(1)

	out, err = env.run(t, "history", "show", string(records[0].ID))
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Nutrition & flavor: Rich in omega-3")

	out, err = env.run(t, "history", "clear", "--yes")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("History cleared")

	out, err = env.run(t, "history", "list")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("No history yet")
}

func TestCatchMissingImage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "catch", "--image", filepath.Join(t.TempDir(), "none.jpg"))
	gt.True(t, err != nil)
	gt.Equal(t, err.Code, 1)
}

func TestHistoryCleanup(t *testing.T) {
	env := newTestEnv(t)
	repo, err := repository.NewFile(env.storeDir)
	gt.NoError(t, err)

	now := time.Now()
	old := model.NewHistoryRecord(now.Add(-8*24*time.Hour), "file:///old.jpg",
		&model.RecognitionResult{Seafood: &model.Seafood{Name: "Cod"}})
	fresh := model.NewHistoryRecord(now.Add(-time.Hour), "file:///new.jpg",
		&model.RecognitionResult{Seafood: &model.Seafood{Name: "Tuna"}})
	data, err := json.Marshal([]*model.HistoryRecord{fresh, old})
	gt.NoError(t, err)
	gt.NoError(t, repo.Set(context.Background(), history.StorageKey, string(data)))

	out, cerr := env.run(t, "history", "cleanup")
	gt.True(t, cerr == nil)
	gt.S(t, out).Contains("1 expired records removed, 1 kept")

	out, cerr = env.run(t, "history", "list")
	gt.True(t, cerr == nil)
	gt.S(t, out).Contains("Tuna")
	gt.S(t, out).Contains("1 hour ago")
	gt.S(t, out).Contains("1 records")
	gt.S(t, out).NotContains("Cod")
}

func TestLoginAndCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "cart", "list")
	gt.True(t, err != nil)
	gt.S(t, err.Message).Contains("not logged in")

	out, err := env.run(t, "login", "--username", "alice", "--password", "pw")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Logged in as alice")

	out, err = env.run(t, "whoami")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("alice")

	out, err = env.run(t, "cart", "list")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("seafood:11")
	gt.S(t, out).Contains("ingredient:21")
	gt.S(t, out).Contains("Salmon")
	gt.S(t, out).Contains("Total: $36.00")

	out, err = env.run(t, "cart", "pay", "--kind", "seafood", "--select", "seafood:12")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Paid 1 items, $10.50")
	gt.A(t, env.api.payments).Length(1)
	gt.Equal(t, env.api.payments[0], "[12]")

	last := env.api.auth[len(env.api.auth)-1]
	gt.Equal(t, last, "Bearer tok")

	out, err = env.run(t, "logout")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Logged out")

	out, err = env.run(t, "whoami")
	gt.True(t, err == nil)
	gt.S(t, out).Contains("Not logged in")
}

func TestConfigFile(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(t.TempDir(), "from-config")
	path := filepath.Join(t.TempDir(), "seefood.yaml")
	gt.NoError(t, os.WriteFile(path, []byte("api_url: "+env.url+"\nstore: sqlite\nstore_dir: "+dir+"\n"), 0o600))

	var stdout bytes.Buffer
	err := cli.Run(context.Background(),
		[]string{"seefood", "--config", path, "--log-level", "error", "login", "-u", "bob", "--password", "pw"},
		cli.WithIO(strings.NewReader(""), &stdout, io.Discard))
	gt.True(t, err == nil)
	gt.S(t, stdout.String()).Contains("Logged in as alice")

	_, serr := os.Stat(filepath.Join(dir, "seefood.db"))
	gt.NoError(t, serr)
}

func TestMetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	image := filepath.Join(t.TempDir(), "fish.png")
	gt.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	prom := filepath.Join(t.TempDir(), "seefood.prom")

	_, err := env.run(t, "--metrics-textfile", prom, "catch", "--image", image)
	gt.True(t, err == nil)

	data, rerr := os.ReadFile(prom)
	gt.NoError(t, rerr)
	gt.S(t, string(data)).Contains(`seefood_identify_total{result="success"} 1`)
	gt.S(t, string(data)).Contains(`seefood_history_save_total{tier="full"} 1`)
}
