package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/services"
)

type RoleHandler struct {
	roles *services.RoleService
}

func NewRoleHandler(roles *services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/roles", h.List)
	r.POST("/roles", h.Create)
	r.GET("/roles/:id", h.Get)
	r.PUT("/roles/:id", h.Update)
	r.DELETE("/roles/:id", h.Delete)
}

// List returns all roles, newest first.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// Create adds a role.
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role name required"})
		return
	}

	form := services.RoleForm{Name: req.Name, Description: req.Description, Privileges: req.Privileges}
	role, err := h.roles.Create(middleware.CurrentActor(c), form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, role)
}

// Get returns a single role by ID.
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	role, err := h.roles.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// Update merges the supplied fields into an existing role.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := services.RoleForm{Name: req.Name, Description: req.Description, Privileges: req.Privileges}
	found, err := h.roles.Update(middleware.CurrentActor(c), id, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// Delete removes a role. Users referencing the role by name are left
// untouched.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.roles.Delete(middleware.CurrentActor(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}
