package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/audit"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/model"
	"gorm.io/gorm"
)

// ItemsHandler tracks gift codes and redeemables. Every state change also
// lands a click event, which backs the weekly activity metric.
type ItemsHandler struct {
	db  *gorm.DB
	aud *audit.Service
}

// NewItemsHandler creates an ItemsHandler.
func NewItemsHandler(db *gorm.DB, aud *audit.Service) *ItemsHandler {
	return &ItemsHandler{db: db, aud: aud}
}

// List returns all tracked items, newest first.
// GET /api/items
func (h *ItemsHandler) List(c *gin.Context) {
	var items []model.Item
	if err := h.db.WithContext(c.Request.Context()).
		Order("id DESC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type itemCreateRequest struct {
	Label    string `json:"label" binding:"required,max=128"`
	GiftCode string `json:"gift_code" binding:"max=64"`
}

// Create registers a new item in pending state.
// POST /api/items
func (h *ItemsHandler) Create(c *gin.Context) {
	var req itemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := model.Item{Label: req.Label, GiftCode: req.GiftCode, State: "pending"}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "item.create", item.ID, req)
	c.JSON(http.StatusCreated, item)
}

type itemClickRequest struct {
	Action   string  `json:"action" binding:"required,max=64"`
	State    *string `json:"state" binding:"omitempty,max=32"`
	GiftCode *string `json:"gift_code" binding:"omitempty,max=64"`
}

// Click records an action on an item, optionally transitioning its state or
// updating its code. The click event is written in the same transaction as
// the item so the activity metric never drifts from item history.
// POST /api/items/:id/click
func (h *ItemsHandler) Click(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req itemClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item model.Item
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		click := model.ClickEvent{
			ItemID:      item.ID,
			Action:      req.Action,
			BeforeState: item.State,
			AfterState:  item.State,
		}
		if req.State != nil {
			item.State = *req.State
			click.AfterState = *req.State
		}
		if req.GiftCode != nil {
			item.GiftCode = *req.GiftCode
		}
		click.GiftCode = item.GiftCode
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Create(&click).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	h.logWrite(c, "item.click", item.ID, req)
	c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) logWrite(c *gin.Context, action string, entityID int64, req interface{}) {
	if h.aud == nil {
		return
	}
	h.aud.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   action,
		Entity:   "item",
		EntityID: entityID,
		Request:  req,
		IP:       c.ClientIP(),
	})
}
