// Package tmdb provides a minimal client for The Movie Database API
// covering the endpoints the sync pipeline needs: TV details, season
// details, and the image configuration.
package tmdb
