package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmcampos/libreria-api/internal/models"
)

// GetMembers is the handler for GET /v1/members
func (h *Handlers) GetMembers(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, nombre, email, membership_type, join_date FROM members ORDER BY nombre")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Nombre, &m.Email, &m.MembershipType, &m.JoinDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan member"})
			return
		}
		members = append(members, m)
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// GetBooks is the handler for GET /v1/books
func (h *Handlers) GetBooks(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, titulo, autor, genero, estado FROM books ORDER BY titulo")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch books"})
		return
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Titulo, &b.Autor, &b.Genero, &b.Estado); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan book"})
			return
		}
		books = append(books, b)
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}
