package handlers

import "net/http"

func (h *Handlers) GroupLeader(w http.ResponseWriter, r *http.Request) {
	standings, err := h.LeaderboardService.Standings(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to compute leaderboard", err)
		return
	}
	h.render(w, r, http.StatusOK, "group_leader.html", page{Standings: standings})
}
