package visacheck

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-visacheck/pkg/chart"
	"github.com/goliatone/go-visacheck/pkg/countries"
)

func postForm(t *testing.T, h http.Handler, target string, values url.Values, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, vals := range header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func gccQuery() url.Values {
	return url.Values{
		"nationality": {"Pakistan"},
		"residence":   {"Indonesia"},
		"purpose":     {"Tourism"},
		"region":      {"gcc"},
	}
}

func TestHandler_GetRendersIdleForm(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"VisitVisa.AI - Visa Success Checker",
		`value="Pakistan"`,
		`value="Indonesia"`,
		`value="Tourism"`,
		`<option value="all">All Regions</option>`,
		`<option value="latin">Latin America</option>`,
		"Find Countries",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "Top Countries") || strings.Contains(body, "data:image/png") {
		t.Fatalf("idle page should not contain results")
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for HEAD, got %d bytes", rec.Body.Len())
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_PostGCCRendersResults(t *testing.T) {
	rec := postForm(t, NewHandler(), "/", gccQuery(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()

	for _, want := range []string{
		"Top Countries with Strong Visa Approval Rates for Pakistan in Indonesia",
		`src="data:image/png;base64,`,
		"Approval Rate: 82%",
		"Approval Rate: 84%",
		"Notes: Visit the official embassy website of UAE for details.",
		`href="https://www.visitqatar.qa" target="_blank"`,
		"Visa Portal",
		`<option value="gcc" selected>GCC</option>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}

	uae := strings.Index(body, "<strong>UAE</strong>")
	qatar := strings.Index(body, "<strong>Qatar</strong>")
	if uae < 0 || qatar < 0 || uae > qatar {
		t.Fatalf("expected UAE before Qatar, got indexes %d and %d", uae, qatar)
	}
	if strings.Contains(body, "<strong>Germany</strong>") {
		t.Fatalf("unexpected schengen entry in gcc results")
	}
	if got := strings.Count(body, `class="bucket-medium"`); got != 2 {
		t.Fatalf("expected 2 medium entries, got %d", got)
	}
	if strings.Contains(body, `<option value="schengen" selected>`) {
		t.Fatalf("schengen should not be selected")
	}
}

func TestHandler_PostJSON(t *testing.T) {
	rec := postForm(t, NewHandler(), "/?format=json", gccQuery(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload struct {
		Query struct {
			Nationality string   `json:"nationality"`
			Regions     []string `json:"region"`
		} `json:"query"`
		Data  []countries.Entry `json:"data"`
		Chart *string           `json:"chart"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff([]string{"UAE", "Qatar"}, countries.Names(payload.Data)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if payload.Query.Nationality != "Pakistan" {
		t.Fatalf("unexpected query echo %+v", payload.Query)
	}
	if payload.Chart == nil {
		t.Fatalf("expected chart payload")
	}
	raw, err := base64.StdEncoding.DecodeString(*payload.Chart)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("decode png: %v", err)
	}

	model, err := chart.Build(payload.Data)
	if err != nil {
		t.Fatalf("build chart: %v", err)
	}
	want := []chart.Bucket{chart.BucketMedium, chart.BucketMedium}
	if diff := cmp.Diff(want, model.Buckets()); diff != "" {
		t.Fatalf("buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_AcceptHeaderSelectsJSON(t *testing.T) {
	header := http.Header{"Accept": {"text/html;q=0.9, application/json"}}
	rec := postForm(t, NewHandler(), "/", gccQuery(), header)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	rec = postForm(t, NewHandler(), "/?format=html", gccQuery(), header)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected format=html to win, got %q", ct)
	}
}

func TestHandler_MissingFieldsRerenderForm(t *testing.T) {
	values := url.Values{
		"nationality": {"Pakistan"},
		"residence":   {"  "},
		"region":      {"asian"},
	}
	rec := postForm(t, NewHandler(), "/", values, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Country of residence is required.",
		"Purpose of visa is required.",
		`value="Pakistan"`,
		`<option value="asian" selected>Asian</option>`,
		`aria-invalid="true"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "Top Countries") {
		t.Fatalf("invalid submission should not render results")
	}
}

func TestHandler_MissingFieldsJSON(t *testing.T) {
	rec := postForm(t, NewHandler(), "/?format=json", url.Values{"purpose": {"Tourism"}}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var payload struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string][]string{
		"nationality": {"Nationality is required."},
		"residence":   {"Country of residence is required."},
	}
	if diff := cmp.Diff(want, payload.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_NoMatchesOmitsChart(t *testing.T) {
	values := gccQuery()
	values["region"] = []string{"oceania"}

	rec := postForm(t, NewHandler(), "/", values, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No countries match the selected regions.") {
		t.Fatalf("expected empty-result message")
	}
	if strings.Contains(body, "data:image/png") {
		t.Fatalf("expected no chart for empty results")
	}

	rec = postForm(t, NewHandler(), "/?format=json", values, nil)
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["chart"] != nil {
		t.Fatalf("expected null chart, got %v", payload["chart"])
	}
	if data, ok := payload["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload["data"])
	}
}

func TestHandler_AllRegionsListsEveryCountry(t *testing.T) {
	values := gccQuery()
	values["region"] = []string{"gcc", "all"}

	rec := postForm(t, NewHandler(), "/", values, nil)
	body := rec.Body.String()
	if got := strings.Count(body, "Visa Portal"); got != 14 {
		t.Fatalf("expected 14 entries, got %d", got)
	}
	if strings.Index(body, "<strong>Germany</strong>") > strings.Index(body, "<strong>South Africa</strong>") {
		t.Fatalf("expected dataset order preserved")
	}
}

func TestHandler_MultipartForm(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range gccQuery() {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/?format=json", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_EscapesSubmittedText(t *testing.T) {
	values := gccQuery()
	values.Set("nationality", `<script>alert(1)</script>Pak"istan`)

	rec := postForm(t, NewHandler(), "/", values, nil)
	body := rec.Body.String()
	if strings.Contains(body, "<script>alert") {
		t.Fatalf("submitted markup leaked into page")
	}
	if !strings.Contains(body, "for Pak&quot;istan in Indonesia") {
		t.Fatalf("expected sanitized, escaped nationality in heading")
	}
}

func TestHandler_GuardStatusError(t *testing.T) {
	h := NewHandler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("nope")}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	h = NewHandler(WithGuard(func(*http.Request) error { return errors.New("denied") }))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_DarkVariant(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?variant=dark", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "variant-dark") {
		t.Fatalf("expected dark variant class")
	}
	if !strings.Contains(body, "--page-bg: #111827;") {
		t.Fatalf("expected dark page background variable")
	}

	rec = httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?variant=sepia", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown variant should fall back, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "variant-") {
		t.Fatalf("unknown variant should render the base theme")
	}
}

func TestHandler_VariantSurvivesPost(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?variant=dark", nil))
	if !strings.Contains(rec.Body.String(), `action="/?variant=dark"`) {
		t.Fatalf("expected form action to keep the variant")
	}

	rec = postForm(t, h, "/?variant=dark", gccQuery(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "variant-dark") || !strings.Contains(body, "--page-bg: #111827;") {
		t.Fatalf("expected result page in dark variant")
	}
	if !strings.Contains(body, `action="/?variant=dark"`) {
		t.Fatalf("expected result form to keep the variant")
	}
}

func TestHandler_CustomQueryParams(t *testing.T) {
	h := NewHandler(WithVariantParam("mode"), WithFormatParam("output"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?mode=dark&variant=ignored", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "variant-dark") {
		t.Fatalf("expected variant from custom param")
	}
	if !strings.Contains(body, `action="/?mode=dark"`) {
		t.Fatalf("expected action to carry the custom param")
	}

	rec = postForm(t, h, "/?output=json", gccQuery(), nil)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON via custom format param, got %q", ct)
	}

	rec = postForm(t, h, "/?format=json", gccQuery(), nil)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("default format param should be ignored, got %q", ct)
	}
}

func TestHandler_LinkedStylesheet(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(WithLinkedStylesheet()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `<link rel="stylesheet" href="/assets/visacheck.css">`) {
		t.Fatalf("expected stylesheet link")
	}
	if strings.Contains(body, "background: var(--page-bg)") {
		t.Fatalf("linked stylesheet should not be inlined")
	}

	rec = httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body = rec.Body.String()
	if strings.Contains(body, "<link rel=\"stylesheet\"") || !strings.Contains(body, "background: var(--page-bg)") {
		t.Fatalf("default page should inline the stylesheet")
	}
}

func TestHandler_WithEntriesAndDefaults(t *testing.T) {
	entries := []countries.Entry{
		{Name: "Iceland", VisaType: "Tourist Visa", SuccessRate: "99%", Region: countries.RegionOther, Note: countries.EmbassyNote("Iceland"), Link: "https://example.is"},
	}
	h := NewHandler(
		WithEntries(entries),
		WithDefaults(FormDefaults{Nationality: "Kenya", Residence: "Kenya", Purpose: "Business"}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), `value="Kenya"`) {
		t.Fatalf("expected custom defaults in idle form")
	}

	values := gccQuery()
	values["region"] = []string{"other"}
	rec = postForm(t, h, "/", values, nil)
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>Iceland</strong>") || !strings.Contains(body, `class="bucket-high"`) {
		t.Fatalf("expected custom entry rendered as high bucket")
	}
}

type stubChart struct {
	calls int
	err   error
}

func (s *stubChart) PNG(_ context.Context, c chart.Chart) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte{byte(len(c.Bars))}, nil
}

func TestHandler_WithChartRenderer(t *testing.T) {
	stub := &stubChart{}
	rec := postForm(t, NewHandler(WithChartRenderer(stub)), "/", gccQuery(), nil)
	if stub.calls != 1 {
		t.Fatalf("expected chart renderer called once, got %d", stub.calls)
	}
	if !strings.Contains(rec.Body.String(), `src="data:image/png;base64,Ag=="`) {
		t.Fatalf("expected stub chart payload in page")
	}

	failing := &stubChart{err: errors.New("boom")}
	var logs strings.Builder
	rec = postForm(t, NewHandler(WithChartRenderer(failing), WithLogger(writerLogger{&logs})), "/", gccQuery(), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

type captureTemplates struct {
	name string
	data any
}

func (c *captureTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	return c.RenderTemplate(name, data, out...)
}

func (c *captureTemplates) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	c.name = name
	c.data = data
	for _, w := range out {
		_, _ = io.WriteString(w, "stub")
	}
	return "stub", nil
}

func (c *captureTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (c *captureTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (c *captureTemplates) GlobalContext(any) error { return nil }

func TestHandler_WithTemplates(t *testing.T) {
	capture := &captureTemplates{}
	rec := postForm(t, NewHandler(WithTemplates(capture, "custom.tmpl")), "/", gccQuery(), nil)
	if rec.Body.String() != "stub" {
		t.Fatalf("expected stub output, got %q", rec.Body.String())
	}
	if capture.name != "custom.tmpl" {
		t.Fatalf("unexpected template name %q", capture.name)
	}
	view, ok := capture.data.(pageView)
	if !ok {
		t.Fatalf("expected pageView data, got %T", capture.data)
	}
	if !view.Submitted || len(view.Results) != 2 {
		t.Fatalf("unexpected view state: submitted=%v results=%d", view.Submitted, len(view.Results))
	}
}

type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format, args...)
}
