package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"machine-sales-backend/internal/store"
)

// --- Machine types ---

func (h *Handler) ListMachineTypes(c *gin.Context) {
	types, err := h.store.ListMachineTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *Handler) GetMachineType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	mt, err := h.store.GetMachineType(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

func (h *Handler) CreateMachineType(c *gin.Context) {
	var in store.MachineTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	mt, err := h.store.CreateMachineType(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mt)
}

func (h *Handler) UpdateMachineType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in store.MachineTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	mt, err := h.store.UpdateMachineType(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

func (h *Handler) DeleteMachineType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachineType(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Machine subtypes ---

func (h *Handler) ListMachineSubtypes(c *gin.Context) {
	subtypes, err := h.store.ListMachineSubtypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtypes)
}

func (h *Handler) GetMachineSubtype(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	mst, err := h.store.GetMachineSubtype(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mst)
}

func (h *Handler) CreateMachineSubtype(c *gin.Context) {
	var in store.MachineSubtypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	mst, err := h.store.CreateMachineSubtype(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mst)
}

func (h *Handler) UpdateMachineSubtype(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in store.MachineSubtypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	mst, err := h.store.UpdateMachineSubtype(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mst)
}

func (h *Handler) DeleteMachineSubtype(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachineSubtype(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Machines ---

func (h *Handler) ListMachines(c *gin.Context) {
	var subtypeID *int64
	if raw := c.Query("subtype_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtype_id"})
			return
		}
		subtypeID = &id
	}
	machines, err := h.store.ListMachines(c.Request.Context(), subtypeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	m, err := h.store.GetMachine(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMachine(c *gin.Context) {
	var in store.MachineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	m, err := h.store.CreateMachine(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in store.MachineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	m, err := h.store.UpdateMachine(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
