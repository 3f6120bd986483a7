// Package apitest runs an in-memory stand-in for the remote book catalog API so
// the client can be exercised end to end in tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	AdminEmail    = "admin@gmail.com"
	AdminPassword = "admin123"
)

// Book mirrors the API's book payload
type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title" binding:"required"`
	Author string  `json:"author" binding:"required"`
	Price  float64 `json:"price" binding:"gte=0.01"`
	Stock  int     `json:"stock" binding:"gte=0"`
}

type user struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Server is a running fake API
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]user
	books      []Book
	nextID     int64
	requestIDs []string
}

// NewServer starts a fake API seeded with the admin account. It is closed
// when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		users:  map[string]user{},
		nextID: 1,
	}
	s.users[AdminEmail] = user{Username: "admin", Email: AdminEmail, Password: AdminPassword}

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.recordRequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"http://localhost:4200"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))

	auth := r.Group("/api/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)

	books := r.Group("/api/books")
	books.GET("", s.listBooks)
	books.GET("/search", s.searchBooks)
	books.POST("", s.createBook)
	books.PUT("/:id", s.updateBook)
	books.DELETE("/:id", s.deleteBook)

	return r
}

func (s *Server) recordRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-ID"))
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	found, ok := s.users[req.Email]
	s.mu.Unlock()

	if ok && found.Password == req.Password {
		c.String(http.StatusOK, "Login Successful")
		return
	}
	c.String(http.StatusOK, "Invalid credentials")
}

func (s *Server) register(c *gin.Context) {
	var req user
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}
	s.users[req.Email] = req
	c.Status(http.StatusOK)
}

func (s *Server) listBooks(c *gin.Context) {
	c.JSON(http.StatusOK, s.Books())
}

func (s *Server) searchBooks(c *gin.Context) {
	term := c.Query("query")

	matches := []Book{}
	for _, b := range s.Books() {
		if strings.Contains(b.Title, term) || strings.Contains(b.Author, term) {
			matches = append(matches, b)
		}
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) createBook(c *gin.Context) {
	var book Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.AddBook(book))
}

func (s *Server) updateBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var book Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			book.ID = id
			s.books[i] = book
			c.JSON(http.StatusOK, book)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Book not found with id: " + c.Param("id")})
}

func (s *Server) deleteBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			break
		}
	}
	c.Status(http.StatusOK)
}

// AddBook stores a book directly, assigning the next id
func (s *Server) AddBook(b Book) Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.books = append(s.books, b)
	return b
}

// AddUser registers an account directly
func (s *Server) AddUser(username, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{Username: username, Email: email, Password: password}
}

// HasUser reports whether an account exists for email
func (s *Server) HasUser(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[email]
	return ok
}

// Books returns a copy of the catalog
func (s *Server) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// RequestIDs returns the X-Request-ID of every request received, in order
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requestIDs))
	copy(out, s.requestIDs)
	return out
}
