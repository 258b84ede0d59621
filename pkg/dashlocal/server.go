package dashlocal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sawka/dashborg-dialog/pkg/dasherr"
	"github.com/sawka/dashborg-dialog/pkg/dashui"
	"github.com/sawka/dashborg-dialog/pkg/dashutil"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

const CSRF_COOKIE = "dashcsrf"
const CSRFTOKEN_HEADER = "X-Csrf-Token"

const HTTP_READ_TIMEOUT = 5 * time.Second
const HTTP_MAX_HEADER_BYTES = 60000
const HTTP_MAX_BODY_BYTES = 1 << 20
const STREAM_WRITE_TIMEOUT = 10 * time.Second

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ErrCode string `json:"errcode,omitempty"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type pageConfig struct {
	Csrf          string `json:"csrf"`
	Debug         bool   `json:"debug"`
	ClientVersion string `json:"clientVersion"`
}

type loadResponse struct {
	UiId    string                    `json:"uiid"`
	Html    string                    `json:"html"`
	Actions []transport.SurfaceAction `json:"actions"`
}

type actionsResponse struct {
	Actions []transport.SurfaceAction `json:"actions,omitempty"`
	Timeout bool                      `json:"timeout,omitempty"`
}

type streamMessage struct {
	Actions []transport.SurfaceAction `json:"actions"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

func (c *Container) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	csrfToken := setCsrfToken(w, r)
	pconfig := pageConfig{
		Csrf:          csrfToken,
		Debug:         c.Config.Env != "prod",
		ClientVersion: CONTAINER_VERSION,
	}
	configJson, err := dashutil.MarshalJson(pconfig)
	if err != nil {
		w.WriteHeader(500)
		w.Write([]byte(fmt.Sprintf("Error marshaling config json: %v", err)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	html := c.getRootHtml()
	html = strings.Replace(html, configPlaceholder, strings.TrimSpace(configJson), 1)
	html = strings.Replace(html, runtimePlaceholder, runtimeJs, 1)
	w.Header().Set("Content-Length", strconv.Itoa(len(html)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func decodeParams(r *http.Request, v interface{}) error {
	contentType := r.Header.Get("Content-Type")
	if r.Method == "POST" && strings.HasPrefix(contentType, "application/json") {
		barr, err := ioutil.ReadAll(io.LimitReader(r.Body, HTTP_MAX_BODY_BYTES))
		if err != nil {
			return err
		}
		err = json.Unmarshal(barr, v)
		if err != nil {
			return dasherr.JsonUnmarshalErr("params", err)
		}
		return nil
	}
	return errors.New("Invalid Method / Content-Type")
}

func jsonWrapper(handler func(w http.ResponseWriter, r *http.Request) (interface{}, error)) func(w http.ResponseWriter, r *http.Request) {
	handlerFn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Type", "application/json")
		rtn, err := handler(w, r)
		if rtn != nil || (rtn == nil && err == nil) {
			if _, ok := rtn.(successResponse); !ok {
				rtn = successResponse{Success: true, Data: rtn}
			}
		}
		if err != nil {
			rtn = errorResponse{Success: false, Error: err.Error(), ErrCode: string(dasherr.GetErrCode(err))}
		}
		var jsonRtn string
		jsonRtn, err = dashutil.MarshalJson(rtn)
		if err != nil {
			rtn = errorResponse{Success: false, Error: fmt.Sprintf("Error Marshaling JSON: %v", err), ErrCode: string(dasherr.ErrCodeJson)}
			jsonRtn, _ = dashutil.MarshalJson(rtn)
		}
		w.Write([]byte(jsonRtn))
	}
	return handlerFn
}

func setCsrfToken(w http.ResponseWriter, r *http.Request) string {
	csrfToken := ""
	cookie, _ := r.Cookie(CSRF_COOKIE)
	if cookie != nil {
		csrfCookieVal := cookie.Value
		if dashutil.IsUUIDValid(csrfCookieVal) {
			csrfToken = csrfCookieVal
		}
	}
	if csrfToken == "" {
		csrfToken = uuid.New().String()
	}
	cookie = &http.Cookie{
		Name:     CSRF_COOKIE,
		Value:    csrfToken,
		Path:     "/",
		Secure:   false,
		HttpOnly: true,
		MaxAge:   24 * 60 * 60,
	}
	http.SetCookie(w, cookie)
	return csrfToken
}

func checkCsrf(r *http.Request) error {
	return checkCsrfToken(r, r.Header.Get(CSRFTOKEN_HEADER))
}

// websocket requests cannot set headers, the token comes in the query string
func checkCsrfToken(r *http.Request, csrfToken string) error {
	cookie, err := r.Cookie(CSRF_COOKIE)
	if err == http.ErrNoCookie || cookie == nil {
		return dasherr.ErrWithCodeStr(dasherr.ErrCodeBadCsrf, "Bad Request: No CSRF Cookie Found")
	}
	csrfCookieVal := cookie.Value
	if !dashutil.IsUUIDValid(csrfCookieVal) {
		return dasherr.ErrWithCodeStr(dasherr.ErrCodeBadCsrf, "Bad Request: Malformed CSRF Cookie")
	}
	if !dashutil.IsUUIDValid(csrfToken) {
		return dasherr.ErrWithCodeStr(dasherr.ErrCodeBadCsrf, "Bad Request: No CSRF Token Set")
	}
	if csrfToken != csrfCookieVal {
		return dasherr.ErrWithCodeStr(dasherr.ErrCodeBadCsrf, "Bad Request: CSRF Token Does Not Match")
	}
	return nil
}

func (c *Container) handleLoad(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var params struct{}
	err := decodeParams(r, &params)
	if err != nil {
		return nil, fmt.Errorf("Cannot decode /api/load params err:%w", err)
	}
	err = checkCsrf(r)
	if err != nil {
		return nil, err
	}
	ui, html, err := c.loadUI()
	if err != nil {
		return nil, err
	}
	return loadResponse{UiId: ui.UiId(), Html: html, Actions: ui.TakeActions()}, nil
}

func (c *Container) handleSignal(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var sig transport.ClientSignal
	err := decodeParams(r, &sig)
	if err != nil {
		return nil, fmt.Errorf("Cannot decode /api/signal params err:%w", err)
	}
	err = checkCsrf(r)
	if err != nil {
		return nil, err
	}
	ui, err := c.lookupUI(sig.UiId)
	if err != nil {
		return nil, err
	}
	err = ui.DispatchSignal(sig)
	c.countSignal(sig, err)
	if err != nil {
		c.logV("dashlocal ui[%s] signal '%s' error: %v\n", sig.UiId, sig.Signal, err)
		return nil, err
	}
	if c.hasStream(sig.UiId) {
		// the stream delivers the queued actions
		return actionsResponse{}, nil
	}
	return actionsResponse{Actions: ui.TakeActions()}, nil
}

func (c *Container) countSignal(sig transport.ClientSignal, err error) {
	signalLabel := sig.Signal
	if !dashutil.IsSignalNameValid(signalLabel) {
		signalLabel = "invalid"
	}
	c.metrics.Signals.WithLabelValues(signalLabel, string(dasherr.GetErrCode(err))).Inc()
}

func (c *Container) handleDrain(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var params struct {
		UiId string `json:"uiid"`
	}
	err := decodeParams(r, &params)
	if err != nil {
		return nil, fmt.Errorf("Cannot decode /api/drain params err:%w", err)
	}
	err = checkCsrf(r)
	if err != nil {
		return nil, err
	}
	ui, err := c.lookupUI(params.UiId)
	if err != nil {
		return nil, err
	}
	actions, err := ui.Drain(r.Context(), c.Config.DrainTimeout)
	if err == dashutil.TimeoutErr {
		return actionsResponse{Timeout: true}, nil
	}
	if err != nil {
		return nil, err
	}
	c.metrics.DrainActions.Add(float64(len(actions)))
	return actionsResponse{Actions: actions}, nil
}

// handleStream pushes actions over a websocket until the browser goes away or the
// container shuts down.  Messages from the browser are ignored.
func (c *Container) handleStream(w http.ResponseWriter, r *http.Request) {
	uiId := r.URL.Query().Get("uiid")
	err := checkCsrfToken(r, r.URL.Query().Get("csrf"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	ui, err := c.lookupUI(uiId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashlocal ui[%s] websocket upgrade failed: %v\n", uiId, err)
		return
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Time{})
	c.metrics.Streams.Inc()
	defer c.metrics.Streams.Dec()
	c.addStream(uiId)
	defer c.removeStream(uiId)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()
	go func() {
		defer cancelFn()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	}()
	go func() {
		select {
		case <-c.doneCh:
			cancelFn()
		case <-ctx.Done():
		}
	}()
	c.logV("dashlocal ui[%s] stream open\n", uiId)
	c.streamActions(ctx, conn, ui)
	c.logV("dashlocal ui[%s] stream closed\n", uiId)
}

func (c *Container) streamActions(ctx context.Context, conn *websocket.Conn, ui *dashui.UI) {
	for {
		actions, err := ui.Drain(ctx, c.Config.DrainTimeout)
		if err == dashutil.TimeoutErr {
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(STREAM_WRITE_TIMEOUT))
			if err != nil {
				return
			}
			continue
		}
		if err != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(STREAM_WRITE_TIMEOUT))
		err = conn.WriteJSON(streamMessage{Actions: actions})
		if err != nil {
			log.Printf("dashlocal ui[%s] stream write error, %d action(s) lost: %v\n", ui.UiId(), len(actions), err)
			return
		}
		c.metrics.DrainActions.Add(float64(len(actions)))
	}
}

// Handler returns the container's http handler.  The websocket stream bypasses
// the timeout handler (it needs to hijack the connection).
func (c *Container) Handler() http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/", c.rootHandler)
	m.HandleFunc("/api/load", jsonWrapper(c.handleLoad))
	m.HandleFunc("/api/signal", jsonWrapper(c.handleSignal))
	m.HandleFunc("/api/drain", jsonWrapper(c.handleDrain))

	top := http.NewServeMux()
	top.HandleFunc("/api/stream", c.handleStream)
	top.Handle("/metrics", promhttp.HandlerFor(c.metrics.Registry, promhttp.HandlerOpts{}))
	top.Handle("/", http.TimeoutHandler(m, c.Config.DrainTimeout+5*time.Second, "Timeout"))
	return top
}

// StartContainer runs the http server, blocks until Config.ShutdownCh is closed
// (or the server fails).
func (c *Container) StartContainer() error {
	if c.getView() == nil {
		return fmt.Errorf("No view connected to local container")
	}
	if c.Config.HtmlFile != "" {
		err := c.watchHtmlFile()
		if err != nil {
			return fmt.Errorf("Cannot watch html file '%s': %w", c.Config.HtmlFile, err)
		}
	}
	httpServer := &http.Server{
		Addr:           c.Config.Addr,
		ReadTimeout:    HTTP_READ_TIMEOUT,
		WriteTimeout:   c.Config.DrainTimeout + 11*time.Second,
		MaxHeaderBytes: HTTP_MAX_HEADER_BYTES,
		Handler:        c.Handler(),
	}
	if c.Config.ShutdownCh != nil {
		go func() {
			<-c.Config.ShutdownCh
			c.Shutdown()
			httpServer.Shutdown(context.Background())
		}()
	}
	log.Printf("Dashborg dialog container starting at http://%s\n", c.Config.Addr)
	err := httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Printf("Dashborg dialog container error:%v\n", err)
		return err
	}
	log.Printf("Dashborg dialog container shutdown\n")
	return nil
}
