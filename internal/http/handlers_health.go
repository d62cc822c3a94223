package httpx

import "net/http"

// healthHandler reports process liveness. No dependencies are checked here;
// a wedged database should not flap the load balancer.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
