package router

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
	"maxelo/attendance/internal/middleware"
	"maxelo/attendance/internal/pkg/repository/postgresql"
	"maxelo/attendance/internal/repository/postgres/attendance"
	"maxelo/attendance/internal/repository/postgres/user"

	attendance_controller "maxelo/attendance/internal/controller/http/v1/attendance"
	auth_controller "maxelo/attendance/internal/controller/http/v1/auth"
	dashboard_controller "maxelo/attendance/internal/controller/http/v1/dashboard"
	user_controller "maxelo/attendance/internal/controller/http/v1/user"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	loc        *time.Location
	log        zerolog.Logger
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	a *auth.Auth,
	loc *time.Location,
	log zerolog.Logger,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		a,
		loc,
		log,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestLogger(r.log))
	r.Use(middleware.CorsMiddleware())

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB, r.loc)
	attendancePostgres := attendance.NewRepository(r.postgresDB, r.loc)

	// controller
	authController := auth_controller.NewController(userPostgres, r.auth)
	userController := user_controller.NewController(userPostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres)
	dashboardController := dashboard_controller.NewController(userPostgres, attendancePostgres)

	// #public
	r.Get("/", landing)
	r.Get("/login", authController.SignInForm)
	r.Post("/login", authController.SignIn)
	r.Get("/logout", authController.SignOut)
	r.Get("/reset_password", authController.ResetForm)
	r.Post("/reset_password", authController.ResetPassword)
	r.Get("/reset_password_form", authController.NewPasswordForm)
	r.Post("/reset_password_form", authController.SubmitNewPassword)
	r.Get("/reset_password_successful", authController.ResetSuccessful)

	// #dashboard
	r.Get("/dashboard/admin", dashboardController.Admin, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/dashboard/employee", dashboardController.Employee, middleware.Authenticate(r.auth))

	// #attendance
	r.Post("/clock_in", attendanceController.ClockIn, middleware.Authenticate(r.auth))
	r.Post("/clock_out", attendanceController.ClockOut, middleware.Authenticate(r.auth))
	r.Get("/register", attendanceController.GetRegister, middleware.Authenticate(r.auth))
	r.Get("/register/export", attendanceController.ExportRegister, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/delete_attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #employee directory
	r.Get("/view_employees", userController.GetUserList, middleware.Authenticate(r.auth))
	r.Get("/add_employee", userController.AddEmployeeForm, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/add_employee", userController.CreateUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/added-employee-successful", userController.AddedSuccessful, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/edit_employee/:id", userController.GetUserDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/edit_employee/:id", userController.UpdateUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/delete_employee/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/export_employees", userController.ExportEmployees, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/employee_badges", userController.GetBadgeSheet, middleware.Authenticate(r.auth, auth.RoleAdmin))

	return r.Run(r.port)
}

func landing(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "Maxelo Attendance Register",
		"status": true,
	}, http.StatusOK)
}
