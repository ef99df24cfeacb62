package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/middleware"
	"github.com/Ortiz25/sms-api/internal/models"
	"github.com/Ortiz25/sms-api/internal/repository"
	"github.com/Ortiz25/sms-api/internal/service"
	"github.com/Ortiz25/sms-api/pkg/config"
	"github.com/Ortiz25/sms-api/pkg/logger"
	corsmiddleware "github.com/Ortiz25/sms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/Ortiz25/sms-api/pkg/middleware/requestid"
)

// RouterDeps carries everything the router needs to wire routes.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Auth     *service.AuthService
	UserRepo *repository.UserRepository

	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	DisciplineHandler *DisciplineHandler
	LeaveHandler      *LeaveHandler
	HostelTransport   *HostelTransportHandler
	AcademicHandler   *AcademicHandler
	PayrollHandler    *PayrollHandler
	ReportHandler     *ReportHandler
}

// NewRouter assembles the gin engine with all middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)

	// Routes reachable without a bearer token. Report downloads carry
	// their own signed token, so they stay outside the JWT group.
	api.POST("/auth/login", deps.AuthHandler.Login)
	api.POST("/auth/refresh", deps.AuthHandler.Refresh)
	if deps.ReportHandler != nil {
		api.GET("/reports/download", deps.ReportHandler.Download)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))

	registerAuthRoutes(authed, deps)
	registerUserRoutes(authed, deps)
	registerDisciplineRoutes(authed, deps)
	registerLeaveRoutes(authed, deps)
	registerHostelTransportRoutes(authed, deps)
	registerAcademicRoutes(authed, deps)
	registerPayrollRoutes(authed, deps)
	if deps.ReportHandler != nil {
		registerReportRoutes(authed, deps)
	}

	return r
}

func registerAuthRoutes(g *gin.RouterGroup, deps RouterDeps) {
	auth := g.Group("/auth")
	auth.POST("/logout", deps.AuthHandler.Logout)
	auth.POST("/change-password", deps.AuthHandler.ChangePassword)
	auth.GET("/me", deps.AuthHandler.Me)
}

func registerUserRoutes(g *gin.RouterGroup, deps RouterDeps) {
	users := g.Group("/users")
	users.GET("", middleware.RequireRoles(models.RoleAdmin), deps.UserHandler.List)
	users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), deps.UserHandler.Get)
	users.POST("", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "create", "user"), deps.UserHandler.Create)
	users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "update", "user"), deps.UserHandler.Update)
	users.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "update_status", "user"), deps.UserHandler.UpdateStatus)
	users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "delete", "user"), deps.UserHandler.Delete)
}

func registerDisciplineRoutes(g *gin.RouterGroup, deps RouterDeps) {
	staffOrAbove := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff)
	disciplinarian := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	d := g.Group("/disciplinary")
	d.GET("/incidents", staffOrAbove, deps.DisciplineHandler.ListIncidents)
	d.GET("/incidents/:id", staffOrAbove, deps.DisciplineHandler.GetIncident)
	d.POST("/incidents", disciplinarian,
		middleware.Audit(deps.UserRepo, "create", "incident"), deps.DisciplineHandler.CreateIncident)
	d.PUT("/incidents/:id", disciplinarian,
		middleware.Audit(deps.UserRepo, "update", "incident"), deps.DisciplineHandler.UpdateIncident)
	d.DELETE("/incidents/:id", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "delete", "incident"), deps.DisciplineHandler.DeleteIncident)
	d.POST("/incidents/prefill", disciplinarian, deps.DisciplineHandler.PrefillForm)
	d.GET("/action-status-mappings", staffOrAbove, deps.DisciplineHandler.ActionMappings)
	d.GET("/students/:id/status-history", staffOrAbove, deps.DisciplineHandler.StatusHistory)
}

func registerLeaveRoutes(g *gin.RouterGroup, deps RouterDeps) {
	l := g.Group("/leaves")
	l.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff), deps.LeaveHandler.List)
	l.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff),
		middleware.Audit(deps.UserRepo, "create", "leave_request"), deps.LeaveHandler.Create)
	l.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin),
		middleware.Audit(deps.UserRepo, "decide", "leave_request"), deps.LeaveHandler.Decide)
	l.GET("/balances/:teacherId", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff),
		deps.LeaveHandler.Balances)
}

func registerHostelTransportRoutes(g *gin.RouterGroup, deps RouterDeps) {
	staffOrAbove := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff)
	manager := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	ht := g.Group("/hostel-transport")
	ht.GET("/dormitories", staffOrAbove, deps.HostelTransport.ListDormitories)
	ht.POST("/dormitories", manager,
		middleware.Audit(deps.UserRepo, "create", "dormitory"), deps.HostelTransport.CreateDormitory)
	ht.PUT("/dormitories/:id", manager,
		middleware.Audit(deps.UserRepo, "update", "dormitory"), deps.HostelTransport.UpdateDormitory)

	ht.GET("/boarders", staffOrAbove, deps.HostelTransport.ListBoarders)
	ht.POST("/boarders", manager,
		middleware.Audit(deps.UserRepo, "create", "boarder"), deps.HostelTransport.CreateBoarder)
	ht.PUT("/boarders/:id", manager,
		middleware.Audit(deps.UserRepo, "update", "boarder"), deps.HostelTransport.UpdateBoarder)

	ht.GET("/hostel-allocations", staffOrAbove, deps.HostelTransport.ListHostelAllocations)

	ht.GET("/routes", staffOrAbove, deps.HostelTransport.ListRoutes)
	ht.POST("/routes", manager,
		middleware.Audit(deps.UserRepo, "create", "transport_route"), deps.HostelTransport.CreateRoute)
	ht.PUT("/routes/:id", manager,
		middleware.Audit(deps.UserRepo, "update", "transport_route"), deps.HostelTransport.UpdateRoute)

	ht.GET("/stops", staffOrAbove, deps.HostelTransport.ListStops)
	ht.POST("/stops", manager,
		middleware.Audit(deps.UserRepo, "create", "route_stop"), deps.HostelTransport.CreateStop)
	ht.PUT("/stops/:id", manager,
		middleware.Audit(deps.UserRepo, "update", "route_stop"), deps.HostelTransport.UpdateStop)

	ht.GET("/transport-allocations", staffOrAbove, deps.HostelTransport.ListTransportAllocations)

	ht.POST("/allocations", manager,
		middleware.Audit(deps.UserRepo, "create", "allocation"), deps.HostelTransport.CreateAllocation)
	ht.PUT("/allocations/:id", manager,
		middleware.Audit(deps.UserRepo, "update", "allocation"), deps.HostelTransport.UpdateAllocation)
}

func registerAcademicRoutes(g *gin.RouterGroup, deps RouterDeps) {
	staffOrAbove := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff)
	admin := middleware.RequireRoles(models.RoleAdmin)

	a := g.Group("/academic")
	a.GET("/sessions", staffOrAbove, deps.AcademicHandler.ListSessions)
	a.POST("/sessions", admin,
		middleware.Audit(deps.UserRepo, "create", "academic_session"), deps.AcademicHandler.CreateSession)
	a.PATCH("/sessions/:id/set-current", admin,
		middleware.Audit(deps.UserRepo, "set_current", "academic_session"), deps.AcademicHandler.SetCurrentSession)
	a.PATCH("/sessions/:id/status", admin,
		middleware.Audit(deps.UserRepo, "update_status", "academic_session"), deps.AcademicHandler.UpdateSessionStatus)

	a.GET("/grading-systems", staffOrAbove, deps.AcademicHandler.ListGradingSystems)
	a.POST("/grading-systems", admin,
		middleware.Audit(deps.UserRepo, "create", "grading_system"), deps.AcademicHandler.CreateGradingSystem)
	a.PUT("/grading-systems/:id", admin,
		middleware.Audit(deps.UserRepo, "update", "grading_system"), deps.AcademicHandler.UpdateGradingSystem)

	a.GET("/exam-types", staffOrAbove, deps.AcademicHandler.ListExamTypes)
	a.POST("/exam-types", admin,
		middleware.Audit(deps.UserRepo, "create", "exam_type"), deps.AcademicHandler.CreateExamType)
	a.PUT("/exam-types/:id", admin,
		middleware.Audit(deps.UserRepo, "update", "exam_type"), deps.AcademicHandler.UpdateExamType)

	exams := g.Group("/examinations")
	exams.GET("", staffOrAbove, deps.AcademicHandler.ListExaminations)
	exams.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher),
		middleware.Audit(deps.UserRepo, "create", "examination"), deps.AcademicHandler.CreateExamination)
	exams.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher),
		middleware.Audit(deps.UserRepo, "update", "examination"), deps.AcademicHandler.UpdateExamination)
	exams.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher),
		middleware.Audit(deps.UserRepo, "update_status", "examination"), deps.AcademicHandler.UpdateExaminationStatus)
}

func registerPayrollRoutes(g *gin.RouterGroup, deps RouterDeps) {
	p := g.Group("/payroll")
	p.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	p.GET("", deps.PayrollHandler.List)
	p.GET("/:id", deps.PayrollHandler.Get)
}

func registerReportRoutes(g *gin.RouterGroup, deps RouterDeps) {
	reports := g.Group("/reports")
	reports.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	reports.POST("/exports",
		middleware.Audit(deps.UserRepo, "request", "report_export"), deps.ReportHandler.RequestExport)
	reports.GET("/exports/:id", deps.ReportHandler.GetJob)
	reports.POST("/exports/:id/download-token", deps.ReportHandler.DownloadToken)
}
