package oauth

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// callbackServer is the loopback HTTP listener that receives the
// provider redirect. It stands in for the popup's postMessage relay: the
// redirect lands here and the handler forwards code/state/error to the
// waiting attempt.
type callbackServer struct {
	srv         *http.Server
	redirectURL string
}

const callbackPage = `<!DOCTYPE html>
<html><body>
<p>Sign-in received. You can close this window and return to the application.</p>
</body></html>`

// startCallbackServer listens on addr (host:port, port 0 for ephemeral)
// and forwards every callback hit to deliver. The bound redirect URL is
// available on the returned server.
func startCallbackServer(addr, path string, deliver func(callbackResult)) (*callbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "[oauth] listening for callback")
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		// FormValue covers both query params and form_post response mode
		deliver(callbackResult{
			code:      r.FormValue("code"),
			state:     r.FormValue("state"),
			errCode:   r.FormValue("error"),
			errDetail: r.FormValue("error_description"),
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(callbackPage))
	})

	cs := &callbackServer{
		srv:         &http.Server{Handler: mux},
		redirectURL: "http://" + ln.Addr().String() + path,
	}
	go func() {
		_ = cs.srv.Serve(ln)
	}()
	return cs, nil
}

// close tears the listener down so nothing leaks into the next attempt.
func (cs *callbackServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cs.srv.Shutdown(ctx)
}
