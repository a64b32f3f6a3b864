package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/database"
	"github.com/arnavshah/shift-roster-ai/pkg/form"
	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/render"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/arnavshah/shift-roster-ai/pkg/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateEmbed embed.FS

//go:embed static/*
var staticEmbed embed.FS

// Version is reported by the info endpoint
const Version = "1.0.0"

// Context keys set by the middlewares
const (
	ctxLang = "lang"
	ctxForm = "form"
)

// LangCookie remembers an explicit language choice
const LangCookie = "roster_lang"

// ScheduleGenerator produces a schedule for a form snapshot
type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, in models.FormInput, lang language.Tag) (models.Schedule, error)
}

// Handler contains dependencies for the route handlers
type Handler struct {
	DB          *gorm.DB
	Sessions    *session.Manager
	Forms       *form.Registry
	Generator   ScheduleGenerator
	Reviewer    *review.Reviewer // nil disables advisory review
	Log         *zap.Logger
	DefaultLang language.Tag
	// Now is the clock used for seeding forms and usage counters
	Now func() time.Time

	pending sync.WaitGroup
}

// Wait blocks until every background generation has settled
func (h *Handler) Wait() {
	h.pending.Wait()
}

// NewRouter wires the middlewares and routes
func NewRouter(h *Handler) *gin.Engine {
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
	if h.Now == nil {
		h.Now = time.Now
	}
	if h.DefaultLang == language.Und {
		h.DefaultLang = i18n.Supported[0]
	}

	r := gin.New()
	r.Use(RequestLogger(h.Log), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateEmbed, "templates/*.html")))
	r.StaticFS("/static", h.GetStaticFS())

	web := r.Group("/")
	web.Use(h.LangMiddleware(), h.SessionMiddleware())
	{
		web.GET("/", h.Index)
		web.POST("/personnel", h.AddPersonnel)
		web.POST("/personnel/:id/delete", h.RemovePersonnel)
		web.POST("/shifts", h.AddShift)
		web.POST("/shifts/:id/delete", h.RemoveShift)
		web.POST("/constraints", h.SetConstraints)
		web.POST("/dates", h.SetDates)
		web.POST("/generate", h.Generate)
		web.POST("/lang", h.SetLang)
		web.GET("/schedule.csv", h.ExportCSV)
	}

	api := r.Group("/api")
	api.Use(h.LangMiddleware())
	{
		api.GET("", h.Info)
		api.POST("/schedule", h.ScheduleJSON)
		api.POST("/prompt", h.PromptPreview)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetUsage)
	}

	return r
}

// LangMiddleware picks the UI language from ?lang=, the language cookie,
// then Accept-Language. When none of them names a supported language the
// configured default is used.
func (h *Handler) LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var prefs []string
		if q := c.Query("lang"); q != "" {
			if tag, ok := i18n.Parse(q); ok {
				c.SetCookie(LangCookie, tag.String(), 365*24*3600, "/", "", false, true)
				prefs = append(prefs, tag.String())
			}
		}
		if cookie, err := c.Cookie(LangCookie); err == nil && cookie != "" {
			prefs = append(prefs, cookie)
		}
		if accept := c.GetHeader("Accept-Language"); accept != "" {
			prefs = append(prefs, accept)
		}

		lang := h.DefaultLang
		if tag, ok := i18n.Match(prefs...); ok {
			lang = tag
		}
		c.Set(ctxLang, lang)
		c.Next()
	}
}

// SessionMiddleware attaches the form store of the browser session,
// issuing a new session cookie when none is valid
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := langOf(c)

		id, fresh := "", ""
		if token, err := c.Cookie(session.CookieName); err == nil {
			if sid, renewed, err := h.Sessions.Refresh(token); err == nil {
				id, fresh = sid, renewed
			}
		}

		if id == "" {
			sid, token, err := h.Sessions.Issue()
			if err != nil {
				h.Log.Error("could not issue session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
				return
			}
			id, fresh = sid, token
		}
		// the expiry slides while the browser stays active
		if fresh != "" {
			c.SetCookie(session.CookieName, fresh, int(h.Sessions.TTL().Seconds()), "/", "", false, true)
		}

		store := h.Forms.Get(id, func() models.FormInput {
			return form.Defaults(lang, h.Now())
		})
		c.Set(ctxForm, store)
		c.Next()
	}
}

func langOf(c *gin.Context) language.Tag {
	if v, ok := c.Get(ctxLang); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return i18n.Supported[0]
}

func storeOf(c *gin.Context) *form.Store {
	return c.MustGet(ctxForm).(*form.Store)
}

func backToForm(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// pageData feeds templates/index.html
type pageData struct {
	Lang     string
	Thai     bool
	State    form.State
	View     render.View
	Error    string
	Review   *review.Report
	Refresh  bool
	lang     language.Tag
	hasTable bool
}

// T translates a message key for the page language
func (p pageData) T(key string, args ...any) string {
	return i18n.T(p.lang, key, args...)
}

// DateLabel formats a row header for the page language
func (p pageData) DateLabel(date string) string {
	return render.DateLabel(date, p.Thai)
}

// HasTable reports whether the data table is shown
func (p pageData) HasTable() bool {
	return p.hasTable
}

// Index renders the form and the output pane
func (h *Handler) Index(c *gin.Context) {
	lang := langOf(c)
	state := storeOf(c).Snapshot()
	view := render.Project(state.Schedule, state.Loading())

	data := pageData{
		Lang:     lang.String(),
		Thai:     i18n.IsThai(lang),
		State:    state,
		View:     view,
		Refresh:  state.Loading(),
		lang:     lang,
		hasTable: view.Kind == render.KindTable,
	}
	if state.ErrorKey != "" {
		data.Error = i18n.T(lang, state.ErrorKey)
	}
	if h.Reviewer != nil && state.Status == form.StatusSuccess && len(state.Schedule) > 0 {
		report := h.Reviewer.Check(state.Schedule, state.Input)
		data.Review = &report
	}

	c.HTML(http.StatusOK, "index.html", data)
}

// AddPersonnel handles the personnel add form
func (h *Handler) AddPersonnel(c *gin.Context) {
	storeOf(c).AddPersonnel(c.PostForm("name"))
	backToForm(c)
}

// RemovePersonnel handles the personnel delete button
func (h *Handler) RemovePersonnel(c *gin.Context) {
	storeOf(c).RemovePersonnel(c.Param("id"))
	backToForm(c)
}

// AddShift handles the shift add form
func (h *Handler) AddShift(c *gin.Context) {
	storeOf(c).AddShift(c.PostForm("name"))
	backToForm(c)
}

// RemoveShift handles the shift delete button
func (h *Handler) RemoveShift(c *gin.Context) {
	storeOf(c).RemoveShift(c.Param("id"))
	backToForm(c)
}

// SetConstraints stores the constraint text verbatim
func (h *Handler) SetConstraints(c *gin.Context) {
	storeOf(c).SetConstraints(c.PostForm("constraints"))
	backToForm(c)
}

// SetDates stores the date range
func (h *Handler) SetDates(c *gin.Context) {
	storeOf(c).SetDateRange(c.PostForm("start"), c.PostForm("end"))
	backToForm(c)
}

// SetLang stores an explicit language choice
func (h *Handler) SetLang(c *gin.Context) {
	if tag, ok := i18n.Parse(c.PostForm("lang")); ok {
		c.SetCookie(LangCookie, tag.String(), 365*24*3600, "/", "", false, true)
	}
	backToForm(c)
}

// Generate starts a generation for the session form. The request runs in
// the background on a snapshot of the form; the page polls until it settles.
func (h *Handler) Generate(c *gin.Context) {
	store := storeOf(c)
	lang := langOf(c)

	in, err := store.StartGeneration()
	switch {
	case errors.Is(err, form.ErrIncomplete):
		h.Log.Info("generation rejected, form incomplete")
		backToForm(c)
		return
	case errors.Is(err, form.ErrInFlight):
		backToForm(c)
		return
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		schedule, err := h.Generator.GenerateSchedule(context.Background(), in, lang)
		if err != nil {
			store.Fail("")
		} else {
			store.Succeed(schedule)
		}
		h.RecordUsage(in, lang, schedule, err == nil)
	}()

	backToForm(c)
}

// ExportCSV downloads the current table as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	state := storeOf(c).Snapshot()
	view := render.Project(state.Schedule, state.Loading())

	c.Header("Content-Disposition", `attachment; filename="roster.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.WriteCSV(c.Writer, view); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

// RecordUsage adds a generation to the daily counters. Failures to record
// are logged and never reach the user.
func (h *Handler) RecordUsage(in models.FormInput, lang language.Tag, schedule models.Schedule, success bool) {
	if h.DB == nil {
		return
	}
	err := database.RecordGeneration(h.DB, h.Now(), database.Outcome{
		Lang:      lang.String(),
		Success:   success,
		Personnel: len(in.Personnel),
		Shifts:    len(in.Shifts),
		Days:      len(schedule),
	})
	if err != nil {
		h.Log.Warn("could not record usage", zap.Error(err))
	}
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
