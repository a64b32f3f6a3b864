package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/database"
	"github.com/arnavshah/shift-roster-ai/pkg/form"
	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/render"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/arnavshah/shift-roster-ai/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var errUpstream = errors.New("failed to communicate with the scheduling AI")

type fakeGenerator struct {
	mu       sync.Mutex
	calls    int
	lastIn   models.FormInput
	lastLang language.Tag
	schedule models.Schedule
	err      error
	// release, when set, blocks every call until it is closed
	release chan struct{}
}

func (f *fakeGenerator) GenerateSchedule(ctx context.Context, in models.FormInput, lang language.Tag) (models.Schedule, error) {
	f.mu.Lock()
	f.calls++
	f.lastIn = in
	f.lastLang = lang
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleSchedule() models.Schedule {
	return models.Schedule{
		{Date: "2024-01-01", Shifts: []models.ScheduledShift{
			{ShiftName: "Morning", Personnel: []string{"A"}},
			{ShiftName: "Night", Personnel: []string{"B"}},
		}},
		{Date: "2024-01-02", Shifts: []models.ScheduledShift{
			{ShiftName: "Night", Personnel: []string{"A"}},
		}},
	}
}

func sampleInput() models.FormInput {
	return models.FormInput{
		Personnel: []models.Person{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}},
		Shifts:    []models.ShiftType{{ID: "s1", Name: "Morning"}, {ID: "s2", Name: "Night"}},
		Dates:     models.DateRange{Start: "2024-01-01", End: "2024-01-02"},
	}
}

func setupHandler(t *testing.T, gen ScheduleGenerator) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Options{Path: ":memory:"})
	require.NoError(t, err)
	sessions, err := session.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	return &Handler{
		DB:          db,
		Sessions:    sessions,
		Forms:       form.NewRegistry(),
		Generator:   gen,
		DefaultLang: language.English,
		Now:         func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) },
	}
}

// browser replays the cookies a real browser would keep between requests
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h *Handler) *browser {
	return &browser{t: t, router: NewRouter(h), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.do(req)
	require.Equal(b.t, http.StatusSeeOther, w.Code, path)
	return w
}

func postJSON(router *gin.Engine, path string, body any, header http.Header) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIndex_SeedsDefaults(t *testing.T) {
	b := newBrowser(t, setupHandler(t, &fakeGenerator{}))

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Malee (nurse)")
	assert.Contains(t, body, "Night (00:00-8:00)")
	assert.Contains(t, body, `value="2024-01-01"`)
	assert.Contains(t, body, `value="2024-01-07"`)
	assert.Contains(t, body, "Waiting for a roster")
	assert.NotContains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, b.cookies, session.CookieName)
}

func TestIndex_ThaiFromAcceptLanguage(t *testing.T) {
	router := NewRouter(setupHandler(t, &fakeGenerator{}))

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "th-TH,th;q=0.9,en;q=0.5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "สร้างตารางเวร")
	assert.Contains(t, w.Body.String(), "คุณมาลี (พยาบาล)")
}

func TestSetLang_Cookie(t *testing.T) {
	b := newBrowser(t, setupHandler(t, &fakeGenerator{}))

	b.post("/lang", url.Values{"lang": {"th"}})
	assert.Equal(t, "th", b.cookies[LangCookie].Value)

	body := b.get("/").Body.String()
	assert.Contains(t, body, `lang="th"`)
	assert.Contains(t, body, "รอการสร้างตารางเวร")
}

func TestFormEdits(t *testing.T) {
	b := newBrowser(t, setupHandler(t, &fakeGenerator{}))
	b.get("/")

	b.post("/personnel", url.Values{"name": {"  Nok (nurse)  "}})
	b.post("/personnel", url.Values{"name": {"   "}})
	b.post("/personnel/3/delete", nil)
	b.post("/shifts", url.Values{"name": {"On call"}})
	b.post("/shifts/s2/delete", nil)
	b.post("/constraints", url.Values{"constraints": {"- keep weekends free"}})
	b.post("/dates", url.Values{"start": {"2024-02-01"}, "end": {"2024-02-03"}})

	body := b.get("/").Body.String()
	assert.Contains(t, body, "<span>Nok (nurse)</span>")
	assert.NotContains(t, body, "Malee (nurse)")
	assert.Contains(t, body, "<span>On call</span>")
	assert.NotContains(t, body, "Afternoon (16:00-00:00)")
	assert.Contains(t, body, "- keep weekends free")
	assert.Contains(t, body, `value="2024-02-01"`)
	assert.Contains(t, body, `value="2024-02-03"`)
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	h := setupHandler(t, gen)
	b := newBrowser(t, h)
	b.get("/")

	b.post("/generate", nil)
	h.Wait()

	require.Equal(t, 1, gen.Calls())
	assert.Len(t, gen.lastIn.Personnel, 6)
	assert.Equal(t, language.English, gen.lastLang)

	body := b.get("/").Body.String()
	assert.Contains(t, body, "<th>Morning</th>")
	assert.Contains(t, body, "<th>Night</th>")
	assert.Contains(t, body, "Mon, Jan 1")
	assert.Contains(t, body, "No staff")
	assert.Contains(t, body, "/schedule.csv")
	assert.NotContains(t, body, `role="alert"`)

	csv := b.get("/schedule.csv")
	require.Equal(t, http.StatusOK, csv.Code)
	assert.Equal(t, "date,Morning,Night\n2024-01-01,A,B\n2024-01-02,,A\n", csv.Body.String())
	assert.Contains(t, csv.Header().Get("Content-Disposition"), "roster.csv")
}

func TestGenerate_IncompleteFormSkipsRequest(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	h := setupHandler(t, gen)
	b := newBrowser(t, h)
	b.get("/")

	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		b.post("/personnel/"+id+"/delete", nil)
	}
	b.post("/generate", nil)
	h.Wait()

	assert.Equal(t, 0, gen.Calls())
	body := b.get("/").Body.String()
	assert.Contains(t, body, i18n.T(language.English, i18n.MsgValidationMissing))
	assert.Contains(t, body, "Waiting for a roster")
}

func TestGenerate_FailureShowsGenericError(t *testing.T) {
	gen := &fakeGenerator{err: errUpstream}
	h := setupHandler(t, gen)
	b := newBrowser(t, h)
	b.get("/")

	b.post("/generate", nil)
	h.Wait()

	body := b.get("/").Body.String()
	assert.Contains(t, body, i18n.T(language.English, i18n.MsgGenerationFailed))
	assert.NotContains(t, body, errUpstream.Error())
	assert.Contains(t, body, "Waiting for a roster")
	assert.NotContains(t, body, "<table")
}

func TestGenerate_SecondTriggerWhileLoading(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule(), release: make(chan struct{})}
	h := setupHandler(t, gen)
	b := newBrowser(t, h)
	b.get("/")

	b.post("/generate", nil)
	require.Eventually(t, func() bool { return gen.Calls() == 1 }, time.Second, 5*time.Millisecond)

	body := b.get("/").Body.String()
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "skeleton")
	assert.Contains(t, body, " disabled")

	b.post("/generate", nil)
	close(gen.release)
	h.Wait()

	assert.Equal(t, 1, gen.Calls())
	assert.Contains(t, b.get("/").Body.String(), "<th>Morning</th>")
}

func TestGenerate_ReviewWhenEnabled(t *testing.T) {
	gen := &fakeGenerator{schedule: models.Schedule{
		{Date: "2024-01-01", Shifts: []models.ScheduledShift{
			{ShiftName: "Morning (8:00-16:00)", Personnel: []string{"Ghost"}},
		}},
	}}
	h := setupHandler(t, gen)
	h.Reviewer = review.NewReviewer(review.DefaultOptions())
	b := newBrowser(t, h)
	b.get("/")

	b.post("/generate", nil)
	h.Wait()

	body := b.get("/").Body.String()
	assert.Contains(t, body, "Advisory review")
	assert.Contains(t, body, "Ghost")
}

func TestSession_SeparateBrowsers(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	h := setupHandler(t, gen)
	first := newBrowser(t, h)
	second := &browser{t: t, router: first.router, cookies: map[string]*http.Cookie{}}

	first.get("/")
	second.get("/")
	first.post("/generate", nil)
	h.Wait()

	assert.Contains(t, first.get("/").Body.String(), "<table")
	assert.NotContains(t, second.get("/").Body.String(), "<table")
	assert.Equal(t, 2, h.Forms.Len())
}

func TestSession_SlidesWhileActive(t *testing.T) {
	h := setupHandler(t, &fakeGenerator{})
	sessions, err := session.NewManager("test-secret", 4*time.Second)
	require.NoError(t, err)
	h.Sessions = sessions
	b := newBrowser(t, h)

	b.get("/")
	first := b.cookies[session.CookieName].Value

	// stay active for longer than one token lifetime
	for i := 0; i < 12; i++ {
		b.post("/constraints", url.Values{"constraints": {fmt.Sprintf("- edit %d", i)}})
		time.Sleep(400 * time.Millisecond)
	}

	body := b.get("/").Body.String()
	assert.Contains(t, body, "- edit 11")
	assert.Equal(t, 1, h.Forms.Len(), "the browser kept its session")
	assert.NotEqual(t, first, b.cookies[session.CookieName].Value, "cookie was re-signed")
}

func TestLang_UnsupportedPreferenceUsesDefault(t *testing.T) {
	h := setupHandler(t, &fakeGenerator{})
	h.DefaultLang = language.Thai
	router := NewRouter(h)

	for _, accept := range []string{"", "fr-FR,fr;q=0.9"} {
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		if accept != "" {
			req.Header.Set("Accept-Language", accept)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `lang="th"`, "Accept-Language %q", accept)
	}

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `lang="en"`)
}

func TestScheduleJSON_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	router := NewRouter(setupHandler(t, gen))

	w := postJSON(router, "/api/schedule", sampleInput(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sampleSchedule(), resp.Schedule)
	assert.Equal(t, render.View{
		Kind:    render.KindTable,
		Columns: []string{"Morning", "Night"},
		Rows: []render.Row{
			{Date: "2024-01-01", Cells: []render.Cell{{Personnel: []string{"A"}}, {Personnel: []string{"B"}}}},
			{Date: "2024-01-02", Cells: []render.Cell{{Empty: true}, {Personnel: []string{"A"}}}},
		},
	}, resp.Table)
	assert.Nil(t, resp.Review)
}

func TestScheduleJSON_Incomplete(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	router := NewRouter(setupHandler(t, gen))

	in := sampleInput()
	in.Personnel = nil
	w := postJSON(router, "/api/schedule", in, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(language.English, i18n.MsgValidationMissing))
	assert.Equal(t, 0, gen.Calls())
}

func TestScheduleJSON_BadBody(t *testing.T) {
	router := NewRouter(setupHandler(t, &fakeGenerator{}))

	req, _ := http.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleJSON_FailureIsGeneric(t *testing.T) {
	gen := &fakeGenerator{err: errUpstream}
	router := NewRouter(setupHandler(t, gen))

	w := postJSON(router, "/api/schedule", sampleInput(), http.Header{"Accept-Language": {"th"}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, i18n.T(language.Thai, i18n.MsgGenerationFailed), body["error"])
	assert.Equal(t, language.Thai, gen.lastLang)
}

func TestPromptPreview(t *testing.T) {
	router := NewRouter(setupHandler(t, &fakeGenerator{}))

	w := postJSON(router, "/api/prompt", sampleInput(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Prompt string         `json:"prompt"`
		Schema map[string]any `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Prompt, "A, B")
	assert.Contains(t, resp.Prompt, "Morning, Night")
	assert.NotEmpty(t, resp.Schema)
}

func TestValidateInput(t *testing.T) {
	router := NewRouter(setupHandler(t, &fakeGenerator{}))

	t.Run("valid", func(t *testing.T) {
		w := postJSON(router, "/api/validate", sampleInput(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["valid"])
		assert.Nil(t, resp["warnings"])
	})

	t.Run("problems", func(t *testing.T) {
		in := sampleInput()
		in.Shifts = nil
		in.Personnel = append(in.Personnel, models.Person{ID: "1", Name: "A"})
		in.Dates = models.DateRange{Start: "2024-01-05", End: "2024-01-01"}

		w := postJSON(router, "/api/validate", in, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Valid    bool     `json:"valid"`
			Errors   []string `json:"errors"`
			Warnings []string `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.Contains(t, resp.Errors, "At least one shift is required")
		assert.Contains(t, resp.Errors, "Duplicate person ID: 1")
		assert.Contains(t, resp.Warnings, "Duplicate person name: A")
		assert.Contains(t, resp.Warnings, "Start date is after end date")
	})
}

func TestGetUsage(t *testing.T) {
	gen := &fakeGenerator{schedule: sampleSchedule()}
	h := setupHandler(t, gen)
	router := NewRouter(h)

	postJSON(router, "/api/schedule", sampleInput(), nil)
	gen.err = errUpstream
	postJSON(router, "/api/schedule", sampleInput(), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/usage", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Totals struct {
			Requests  int64 `json:"requests"`
			Successes int64 `json:"successes"`
			Failures  int64 `json:"failures"`
			Days      int64 `json:"days"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Totals.Requests)
	assert.Equal(t, int64(1), resp.Totals.Successes)
	assert.Equal(t, int64(1), resp.Totals.Failures)
	assert.Equal(t, int64(2), resp.Totals.Days)
}

func TestGetUsage_Disabled(t *testing.T) {
	h := setupHandler(t, &fakeGenerator{})
	h.DB = nil
	router := NewRouter(h)

	req, _ := http.NewRequest(http.MethodGet, "/api/usage", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInfoAndStatic(t *testing.T) {
	router := NewRouter(setupHandler(t, &fakeGenerator{}))

	req, _ := http.NewRequest(http.MethodGet, "/api", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), Version)

	req, _ = http.NewRequest(http.MethodGet, "/static/app.css", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
