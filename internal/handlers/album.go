package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/services"
)

type AlbumHandler struct {
	albumService services.AlbumService
}

func NewAlbumHandler(albumService services.AlbumService) *AlbumHandler {
	return &AlbumHandler{albumService: albumService}
}

func (ah *AlbumHandler) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		CoverURL string `json:"cover_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	album, err := ah.albumService.Create(c.Request.Context(), services.CreateAlbumInput{
		Name:     req.Name,
		CoverURL: req.CoverURL,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, album)
}

func (ah *AlbumHandler) List(c *gin.Context) {
	albums, err := ah.albumService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"albums": albums})
}

func (ah *AlbumHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid album id"))
		return
	}
	album, err := ah.albumService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, album)
}

func (ah *AlbumHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid album id"))
		return
	}
	var req struct {
		Name     *string `json:"name"`
		CoverURL *string `json:"cover_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	album, err := ah.albumService.Update(c.Request.Context(), id, services.UpdateAlbumInput{
		Name:     req.Name,
		CoverURL: req.CoverURL,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, album)
}

func (ah *AlbumHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid album id"))
		return
	}
	if err := ah.albumService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}

func (ah *AlbumHandler) AddTracks(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid album id"))
		return
	}
	var req struct {
		Tracks []struct {
			Title    string `json:"title"`
			Artist   string `json:"artist"`
			URL      string `json:"url"`
			Position int    `json:"position"`
		} `json:"tracks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	inputs := make([]services.AddTrackInput, 0, len(req.Tracks))
	for _, t := range req.Tracks {
		inputs = append(inputs, services.AddTrackInput{
			Title:    t.Title,
			Artist:   t.Artist,
			URL:      t.URL,
			Position: t.Position,
		})
	}
	album, err := ah.albumService.AddTracks(c.Request.Context(), id, inputs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, album)
}

func (ah *AlbumHandler) RemoveTrack(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid album id"))
		return
	}
	trackID, err := uuid.Parse(c.Param("trackId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid track id"))
		return
	}
	if err := ah.albumService.RemoveTrack(c.Request.Context(), albumID, trackID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}
