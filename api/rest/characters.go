package rest

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/audit"
	"github.com/yunae/gamedash/derive"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/model"
	"gorm.io/gorm"
)

// CharactersHandler handles the per-game character gallery.
type CharactersHandler struct {
	db  *gorm.DB
	aud *audit.Service
}

// NewCharactersHandler creates a CharactersHandler.
func NewCharactersHandler(db *gorm.DB, aud *audit.Service) *CharactersHandler {
	return &CharactersHandler{db: db, aud: aud}
}

type characterOut struct {
	ID         int64  `json:"id"`
	GameID     int64  `json:"game_id"`
	Title      string `json:"title"`
	Level      int    `json:"level"`
	Grade      string `json:"grade"`
	GradeScore int    `json:"grade_score"`
	Overpower  int    `json:"overpower"`
	Position   string `json:"position"`
	Memo       string `json:"memo"`
	IsHave     bool   `json:"is_have"`
}

func characterOutOf(ch *model.Character) characterOut {
	return characterOut{
		ID:         ch.ID,
		GameID:     ch.GameID,
		Title:      ch.Title,
		Level:      ch.Level,
		Grade:      ch.Grade,
		GradeScore: derive.GradeScore(ch.Grade),
		Overpower:  ch.Overpower,
		Position:   ch.Position,
		Memo:       ch.Memo,
		IsHave:     ch.IsHave,
	}
}

// List returns the game's characters: owned first, then by grade, overpower
// and level descending, title as the final tiebreak.
// GET /api/games/:id/characters
func (h *CharactersHandler) List(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var chars []model.Character
	if err := h.db.WithContext(c.Request.Context()).
		Where("game_id = ?", gameID).
		Find(&chars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	sort.SliceStable(chars, func(i, j int) bool {
		a, b := chars[i], chars[j]
		if a.IsHave != b.IsHave {
			return a.IsHave
		}
		ra := derive.CharacterRank{Grade: a.Grade, Overpower: a.Overpower, Level: a.Level}
		rb := derive.CharacterRank{Grade: b.Grade, Overpower: b.Overpower, Level: b.Level}
		if ra.Less(rb) {
			return true
		}
		if rb.Less(ra) {
			return false
		}
		return a.Title < b.Title
	})

	out := make([]characterOut, 0, len(chars))
	for i := range chars {
		out = append(out, characterOutOf(&chars[i]))
	}
	c.JSON(http.StatusOK, gin.H{"characters": out})
}

type characterUpdateRequest struct {
	Level     *int    `json:"level" binding:"omitempty,min=0"`
	Grade     *string `json:"grade"`
	Overpower *int    `json:"overpower" binding:"omitempty,min=0,max=10"`
	Position  *string `json:"position"`
	Memo      *string `json:"memo"`
	IsHave    *bool   `json:"is_have"`
}

// Update patches mutable character fields; omitted fields keep their value.
// Title and game linkage never change after seeding.
// POST /api/characters/:id
func (h *CharactersHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req characterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ch model.Character
	if err := h.db.WithContext(c.Request.Context()).First(&ch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}

	if req.Level != nil {
		ch.Level = *req.Level
	}
	if req.Grade != nil {
		ch.Grade = *req.Grade
	}
	if req.Overpower != nil {
		ch.Overpower = *req.Overpower
	}
	if req.Position != nil {
		ch.Position = *req.Position
	}
	if req.Memo != nil {
		ch.Memo = *req.Memo
	}
	if req.IsHave != nil {
		ch.IsHave = *req.IsHave
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&ch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if h.aud != nil {
		h.aud.Log(audit.Entry{
			TraceID:  mw.GetTraceID(c),
			Action:   "character.update",
			Entity:   "character",
			EntityID: ch.ID,
			Request:  req,
			IP:       c.ClientIP(),
		})
	}
	c.JSON(http.StatusOK, characterOutOf(&ch))
}
