package handler

import (
	"github.com/gin-gonic/gin"
)

// Router bundles the handlers and guards mounted on the engine.
type Router struct {
	Prefix     string
	Persons    *PersonHandler
	Attendance *AttendanceHandler
	Push       *PushHandler
	Admin      *AdminHandler
	Metrics    *MetricsHandler

	AdminGuard    gin.HandlerFunc
	WriteLimiter  gin.HandlerFunc
	ExposeMetrics bool
}

// Register mounts every route on r.
func (rt Router) Register(r *gin.Engine) {
	limit := rt.WriteLimiter
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	if rt.ExposeMetrics {
		r.GET("/metrics", rt.Metrics.Prometheus)
	}

	api := r.Group(rt.Prefix)
	api.GET("/users", rt.Persons.List)
	api.POST("/users", limit, rt.Persons.Register)
	api.GET("/votes", rt.Attendance.List)
	api.POST("/votes/toggle", limit, rt.Attendance.Toggle)
	api.GET("/votes/calendar", rt.Attendance.Calendar)
	api.GET("/push/public-key", rt.Push.PublicKey)
	api.POST("/push/subscribe", limit, rt.Push.Subscribe)

	api.POST("/admin/login", limit, rt.Admin.Login)

	admin := api.Group("/admin", rt.AdminGuard)
	admin.GET("/lazy-users", rt.Attendance.Lazy)
	admin.POST("/remind-lazy", rt.Admin.Remind)
	admin.DELETE("/users/:id", rt.Persons.Delete)
	admin.DELETE("/votes/:id", rt.Attendance.DeleteMark)
	admin.GET("/votes/export", rt.Attendance.Export)
}
