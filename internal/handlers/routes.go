package handlers

import (
	"net/http"
)

// Handlers bundles every HTTP handler the server exposes
type Handlers struct {
	Middleware  *Middleware
	Health      *HealthHandler
	Tree        *TreeHandler
	Family      *FamilyHandler
	DNA         *DNAHandler
	Assistant   *AssistantHandler
	Profile     *ProfileHandler
	Connections *ConnectionHandler
	Admin       *AdminHandler
}

// Routes registers every route on a new mux
func (h *Handlers) Routes() *http.ServeMux {
	mw := h.Middleware
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health.Health)

	// Model-backed endpoints are rate limited
	mux.HandleFunc("POST /api/assistant", mw.RequireAuth(mw.RateLimit(h.Assistant.Ask)))
	mux.HandleFunc("POST /api/users/{userID}/dna", mw.RequireOwner(mw.RateLimit(h.DNA.Analyze)))
	mux.HandleFunc("GET /api/users/{userID}/dna/analysis", mw.RequireOwner(h.DNA.GetAnalysis))

	mux.HandleFunc("POST /api/family-data", mw.RequireAuth(h.Family.SaveFamilyData))
	mux.HandleFunc("GET /api/users/{userID}/family-data", mw.RequireOwner(h.Family.GetFamilyData))

	mux.HandleFunc("GET /api/users/{userID}/tree", mw.RequireOwner(h.Tree.GetTree))
	mux.HandleFunc("GET /api/users/{userID}/tree/groups", mw.RequireOwner(h.Tree.GetGroups))
	mux.HandleFunc("POST /api/users/{userID}/tree/members", mw.RequireOwner(h.Tree.AddMember))
	mux.HandleFunc("PUT /api/users/{userID}/tree/members/{memberID}", mw.RequireOwner(h.Tree.UpdateMember))
	mux.HandleFunc("PUT /api/users/{userID}/tree/members/{memberID}/position", mw.RequireOwner(h.Tree.MoveMember))
	mux.HandleFunc("DELETE /api/users/{userID}/tree/members/{memberID}", mw.RequireOwner(h.Tree.DeleteMember))
	mux.HandleFunc("POST /api/users/{userID}/tree/edges", mw.RequireOwner(h.Tree.LinkRelation))
	mux.HandleFunc("POST /api/users/{userID}/tree/relatives", mw.RequireOwner(h.Tree.AddRelative))

	mux.HandleFunc("GET /api/users/{userID}/profile", mw.RequireOwner(h.Profile.GetProfile))
	mux.HandleFunc("PUT /api/users/{userID}/profile", mw.RequireOwner(h.Profile.SaveProfile))
	mux.HandleFunc("GET /api/users/{userID}/matches", mw.RequireOwner(h.Profile.Matches))

	mux.HandleFunc("POST /api/connections", mw.RequireAuth(h.Connections.Send))
	mux.HandleFunc("PUT /api/connections/{id}", mw.RequireAuth(h.Connections.Respond))
	mux.HandleFunc("GET /api/users/{userID}/connections", mw.RequireOwner(h.Connections.List))

	mux.HandleFunc("GET /api/admin/backup", mw.RequireAdmin(h.Admin.ExportDatabase))
	mux.HandleFunc("POST /api/admin/backup", mw.RequireAdmin(h.Admin.ImportDatabase))

	return mux
}
