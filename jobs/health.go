package jobs

import (
	"encoding/json"
	"net/http"
)

func writeHealth(w http.ResponseWriter, health queueHealth) {
	_ = json.NewEncoder(w).Encode(health)
}
