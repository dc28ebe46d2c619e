package mets

import (
	"net/http"

	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"

	log "github.com/sirupsen/logrus"
)

// Handler serves the activity catalog, used by clients to build the tracking form.
type Handler struct {
	repo metsRepo
}

func NewHandler(repo metsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.mets.activities")
	defer span.End()

	activities, _, err := handler.repo.ListActivityMets(ctx)
	if err != nil {
		log.Errorf("list activity mets: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if activities == nil {
		activities = make([]ActivityMets, 0)
	}

	pkg.WriteJSON(w, activities, http.StatusOK)
}
