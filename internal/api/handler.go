package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/order"
	"github.com/equine-kiosk/server/internal/session"
	"github.com/gin-gonic/gin"
)

// Catalogs is the catalog store as seen by the HTTP layer.
type Catalogs interface {
	session.CatalogSource
	Refresh(ctx context.Context, language string) (*catalog.Snapshot, error)
}

type Handler struct {
	sessions  *session.Service
	catalogs  Catalogs
	assistant ToolRunner
}

func NewHandler(sessions *session.Service, catalogs Catalogs) *Handler {
	return &Handler{sessions: sessions, catalogs: catalogs}
}

// ===================================
// Catalog
// ===================================

func (h *Handler) ListProducts(c *gin.Context) {
	snap, err := h.catalogs.Snapshot(c.Param("lang"))
	if err != nil {
		writeError(c, err)
		return
	}
	products := snap.Products()
	if raw := c.Query("category"); raw != "" {
		category, ok := catalog.ParseCategory(raw)
		if !ok {
			badRequest(c, fmt.Errorf("unknown category %q", raw))
			return
		}
		products = snap.ByCategory(category)
	}
	c.JSON(http.StatusOK, gin.H{"language": snap.Language, "products": productViews(products)})
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	snap, err := h.catalogs.Snapshot(c.Param("lang"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": snap.Language, "products": productViews(snap.Featured())})
}

func (h *Handler) RefreshCatalog(c *gin.Context) {
	lang := c.Param("lang")
	snap, err := h.catalogs.Refresh(c.Request.Context(), lang)
	if err != nil {
		writeError(c, err)
		return
	}
	reloaded := h.sessions.ReloadCatalogs(lang)
	c.JSON(http.StatusOK, gin.H{"language": lang, "products": snap.Len(), "sessions": reloaded})
}

// ===================================
// Sessions
// ===================================

type openSessionRequest struct {
	Language string `json:"language"`
}

func (h *Handler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	sess, err := h.sessions.Open(strings.TrimSpace(req.Language))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sess.ID, "language": sess.Language})
}

func (h *Handler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) respondCart(c *gin.Context, sess *session.Session, changed bool) {
	// Items and prices come from the same copy of the cart.
	snapshot := sess.Cart()
	o := order.Compute(snapshot, sess.Catalog())
	c.JSON(http.StatusOK, newCartView(sess.ID, snapshot, o, changed))
}

func (h *Handler) GetCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.respondCart(c, sess, false)
}

func (h *Handler) ClearCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.ClearCart()
	h.respondCart(c, sess, true)
}

type addPhotoRequest struct {
	Filename string `json:"filename" binding:"required"`
	Rider    string `json:"rider"`
	Horse    string `json:"horse"`
	FileID   string `json:"file_id"`
	EventID  string `json:"event_id"`
}

func (r addPhotoRequest) ref() cart.PhotoRef {
	return cart.PhotoRef{
		Filename: r.Filename,
		Subject:  cart.Subject{Rider: r.Rider, Horse: r.Horse}.Normalize(),
		FileID:   r.FileID,
		EventID:  r.EventID,
	}
}

func (h *Handler) AddPhoto(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req addPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondCart(c, sess, sess.AddPhoto(req.ref()))
}

func (h *Handler) RemovePhoto(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.respondCart(c, sess, sess.RemovePhoto(c.Param("filename")))
}

type formatRequest struct {
	ProductID catalog.ProductID `json:"product_id" binding:"required"`
	Delta     int               `json:"delta"`
}

func (h *Handler) SetFormatQuantity(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondCart(c, sess, sess.SetFormatQuantity(c.Param("filename"), req.ProductID, req.Delta))
}

type applyToAllRequest struct {
	Source string `json:"source"`
}

func (h *Handler) ApplyToAll(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req applyToAllRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	h.respondCart(c, sess, sess.ApplyFirstPhotoChoicesToAll(req.Source) > 0)
}

type addBundleRequest struct {
	ProductID catalog.ProductID `json:"product_id" binding:"required"`
	Subject   string            `json:"subject" binding:"required"`
	Photos    []addPhotoRequest `json:"photos"`
}

func (h *Handler) AddBundle(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req addBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	photos := make([]cart.PhotoRef, 0, len(req.Photos))
	for _, p := range req.Photos {
		photos = append(photos, p.ref())
	}
	h.respondCart(c, sess, sess.AddBundle(req.ProductID, req.Subject, photos))
}

func (h *Handler) RemoveBundle(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid product id %q", c.Param("productID")))
		return
	}
	h.respondCart(c, sess, sess.RemoveBundle(catalog.ProductID(id), c.Query("subject")))
}

// ===================================
// Save, restore and submit
// ===================================

func (h *Handler) SaveCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	code, err := sess.SaveForLater(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": code})
}

type restoreRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) RestoreCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := sess.Restore(c.Request.Context(), strings.TrimSpace(req.Code)); err != nil {
		writeError(c, err)
		return
	}
	h.respondCart(c, sess, true)
}

type submitOrderRequest struct {
	Client order.ClientInfo `json:"client"`
}

func (h *Handler) SubmitOrder(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sub, err := sess.Submit(c.Request.Context(), req.Client)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
