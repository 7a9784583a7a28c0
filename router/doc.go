// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Bale Scorer API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Sessions:  manager,
		Persister: persister,
		Live:      liveServer,
		Gatherer:  registry,
	})

CORS is applied by the caller around the returned mux.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics - Prometheus exposition

Bale (scoped by X-Profile-ID):

	POST /bales                          - Start a bale
	GET  /bale                           - Bale with cards and standings
	GET  /bale/restore                   - View to reopen after a restart
	PUT  /bale/app-state                 - Save the current view
	POST /bale/end                       - Change the current end
	POST /bale/keypad/focus              - Focus an arrow slot
	POST /bale/keypad/enter              - Enter a token for the focused slot
	POST /bale/keypad/close              - Close the keypad
	PUT  /bale/scores                    - Edit an arrow of the current end
	GET  /bale/archers/{id}              - One archer's scorecard
	GET  /bale/archers/{id}/chart.png    - Running total chart
	GET  /bale/export.xlsx               - Scorecard workbook

Live view (public, uses view slug):

	GET /live/{slug} - WebSocket stream of bale updates

Profiles:

	POST /profiles
	GET  /profiles
*/
package router
