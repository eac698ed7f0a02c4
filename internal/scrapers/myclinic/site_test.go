package myclinic

import (
	"encoding/json"
	"fmt"
	"myclinic-backend/internal/components/chrono"
	"myclinic-backend/internal/components/telemetry"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/sign_in.html
var signInPage []byte

//go:embed testdata/home.html
var homePage []byte

//go:embed testdata/birthdays_page.html
var birthdaysPage []byte

//go:embed testdata/birthdays_report.html
var birthdaysReport []byte

//go:embed testdata/birthdays_empty.html
var birthdaysEmpty []byte

//go:embed testdata/schedules.json
var schedulesListing []byte

const (
	testSubdomain = "myclinic"
	testSalonId   = "436"
	testIdentity  = "recepcao"
	testSecret    = "s3nha"
)

var testNow = time.Date(2025, 10, 24, 8, 0, 0, 0, time.UTC)

var testDetails = map[string]string{
	"101": `<p>Telefone: <b>(11) 98765-4321</b></p>`,
	"102": `Cel 21 3456-7890`,
	"104": `<p>Sem telefone</p>`,
}

// fakeSite imitates the pages and endpoints of a tenant.
type fakeSite struct {
	mutex    sync.Mutex
	sessions map[string]bool
	sequence int

	// knobs
	rejectLogins     bool
	rejectSchedules  bool
	emptyReport      bool
	detailDelay      time.Duration
	failingDetailIds map[string]bool

	// observations
	loginPosts       int
	loginForm        url.Values
	loginCookie      string
	scheduleCalls    int
	scheduleQuery    url.Values
	scheduleHeaders  http.Header
	detailStamps     []string
	birthdayForm     url.Values
	birthdayHeaders  http.Header
	inflightDetails  atomic.Int64
	maxInflightCount atomic.Int64
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		sessions:         map[string]bool{},
		failingDetailIds: map[string]bool{"103": true},
	}
}

// expireSessions makes the site forget every session it handed out.
func (s *fakeSite) expireSessions() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions = map[string]bool{}
}

// locked runs fn holding the site's mutex, tests use it to turn knobs and
// read observations.
func (s *fakeSite) locked(fn func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fn()
}

func (s *fakeSite) authorized(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sessions[cookie.Value]
}

func (s *fakeSite) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users/sign_in", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "provisional", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(signInPage)
	})

	mux.HandleFunc("POST /users/sign_in", func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mutex.Lock()
		s.loginPosts++
		s.loginForm = r.PostForm
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			s.loginCookie = cookie.Value
		}
		accepted := !s.rejectLogins &&
			r.PostForm.Get("authenticity_token") == "login-token" &&
			r.PostForm.Get("user[organization][subdomain]") == testSubdomain &&
			r.PostForm.Get("user[username]") == testIdentity &&
			r.PostForm.Get("user[password]") == testSecret
		session := ""
		if accepted {
			s.sequence++
			session = fmt.Sprintf("session-%d", s.sequence)
			s.sessions[session] = true
		}
		s.mutex.Unlock()

		if !accepted {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(signInPage)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: session, Path: "/", HttpOnly: true})
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Redirect(w, r, pathSignIn, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(homePage)
	})

	mux.HandleFunc("GET /schedules/entries", func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		s.scheduleCalls++
		s.scheduleQuery = r.URL.Query()
		s.scheduleHeaders = r.Header.Clone()
		reject := s.rejectSchedules
		s.mutex.Unlock()

		if reject || !s.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(schedulesListing)
	})

	mux.HandleFunc("GET /schedules/{id}/event_detail", func(w http.ResponseWriter, r *http.Request) {
		inflight := s.inflightDetails.Add(1)
		defer s.inflightDetails.Add(-1)
		for {
			peak := s.maxInflightCount.Load()
			if inflight <= peak || s.maxInflightCount.CompareAndSwap(peak, inflight) {
				break
			}
		}

		id := r.PathValue("id")
		s.mutex.Lock()
		s.detailStamps = append(s.detailStamps, r.URL.Query().Get("_"))
		delay := s.detailDelay
		failing := s.failingDetailIds[id]
		s.mutex.Unlock()

		time.Sleep(delay)

		if !s.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		idNum, _ := strconv.ParseInt(id, 10, 64)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(eventDetail{
			Id:          idNum,
			Description: testDetails[id],
		})
	})

	mux.HandleFunc("GET /report/customers_birthdays", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Redirect(w, r, pathSignIn, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(birthdaysPage)
	})

	mux.HandleFunc("POST /report/customers_birthdays", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mutex.Lock()
		s.birthdayForm = r.PostForm
		s.birthdayHeaders = r.Header.Clone()
		empty := s.emptyReport
		s.mutex.Unlock()

		w.Header().Set("Content-Type", "text/vnd.turbo-stream.html; charset=utf-8")
		if empty {
			w.Write(birthdaysEmpty)
			return
		}
		w.Write(birthdaysReport)
	})

	return mux
}

func newTestClient(t testing.TB, opts Options) (*Client, *fakeSite, *telemetry.RecordingAPI) {
	site := newFakeSite()
	server := httptest.NewServer(site.handler())
	t.Cleanup(server.Close)

	opts.BaseUrl = server.URL
	if opts.Subdomain == "" {
		opts.Subdomain = testSubdomain
	}
	if opts.SalonId == "" {
		opts.SalonId = testSalonId
	}

	rec := &telemetry.RecordingAPI{}
	client, err := NewClient(opts, chrono.FixedImpl{Time: testNow}, rec)
	require.NoError(t, err)
	return client, site, rec
}
