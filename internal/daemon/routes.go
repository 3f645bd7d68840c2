package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foogie-app/foogie/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type mealRequest struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Servings float64 `json:"servings"`
}

// Router builds the gin engine serving the daemon API.
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOriginFunc = isLocalOrigin
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(config))

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/calorie-tracker", s.handleTrackerPing)
		api.POST("/calorie-tracker", s.handleTrackerSync)
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/meals", s.handleListMeals)
		v1.POST("/meals", s.handleAddMeal)
		v1.DELETE("/meals/:index", s.handleRemoveMeal)
		v1.GET("/events", s.handleEvents)
		v1.GET("/stream", s.handleStream)
		v1.GET("/ws", s.handleSocket)
	}

	return r
}

func isLocalOrigin(origin string) bool {
	for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "http://[::1]"} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}
	return false
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleTrackerPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) handleTrackerSync(c *gin.Context) {
	var p SyncPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if p.RecipeName == "" {
		p.RecipeName = "Unknown"
	}

	s.logger.Printf("foogie daemon: logged consumption: %s - %s calories", p.RecipeName, formatCalories(p.Calories))

	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	s.publishEvent(Event{
		Type:      EventCalorieSync,
		Timestamp: s.cfg.Now(),
		Snapshot:  snap,
		Sync:      &p,
	})

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Logged %s calories from %s", formatCalories(p.Calories), p.RecipeName),
	})
}

func formatCalories(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleListMeals(c *gin.Context) {
	sum, err := s.cfg.Ledger.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Service) handleAddMeal(c *gin.Context) {
	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := s.cfg.Ledger.AppendMeal(c.Request.Context(), req.Name, req.Calories, model.Nutrients{
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Servings: req.Servings,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.pollOnce(c.Request.Context())
	c.JSON(http.StatusCreated, meal)
}

func (s *Service) handleRemoveMeal(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	ok, err := s.cfg.Ledger.RemoveMeal(c.Request.Context(), index)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no meal at index %d", index)})
		return
	}

	s.pollOnce(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Service) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	w.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) handleSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &wsClient{conn: conn}
	s.hub.register(cl)

	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	if data, err := json.Marshal(current); err == nil {
		if err := cl.write(websocket.TextMessage, data); err != nil {
			s.hub.unregister(cl)
			return
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.write(websocket.PingMessage, nil); err != nil {
					s.hub.unregister(cl)
					return
				}
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.unregister(cl)
			return
		}
	}
}
