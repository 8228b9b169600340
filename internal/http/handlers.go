package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/smartenergy/metering/internal/domain"
	"github.com/smartenergy/metering/internal/service"
)

type apiReading struct {
	Value       *float64 `json:"value"`
	ReadingDate string   `json:"reading_date"`
	MeterSerial string   `json:"meter_serial_number"`
	Email       string   `json:"email"`
}

type apiReadingUpdate struct {
	ReadingID   *int64   `json:"reading_id"`
	Value       *float64 `json:"value"`
	ReadingDate string   `json:"reading_date"`
}

type apiMeter struct {
	SerialNumber   string   `json:"serial_number"`
	MeterType      string   `json:"meter_type"`
	FacilityName   string   `json:"facility_name"`
	PPE            *string  `json:"ppe"`
	MultiplyFactor *float64 `json:"multiply_factor"`
	Description    *string  `json:"description"`
}

type apiFacility struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type apiAssignment struct {
	Email        string `json:"email"`
	FacilityName string `json:"facility_name"`
}

type apiUser struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccessLevel *int   `json:"access_level"`
}

type apiLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "Smart Energy API is running"})
	})

	registerReadings(app, svcs)
	registerMeters(app, svcs)
	registerFacilities(app, svcs)
	registerUsers(app, svcs)
	registerReports(app, svcs)
}

func registerReadings(app *fiber.App, svcs *service.Services) {
	app.Get("/readings/:facility/:type?", func(c *fiber.Ctx) error {
		readings, err := svcs.Repos.ListReadingsByFacility(c.Context(), c.Params("facility"), c.Params("type"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"readings": readings})
	})

	app.Post("/create_reading", func(c *fiber.Ctx) error {
		var req apiReading
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Value == nil || req.ReadingDate == "" || req.MeterSerial == "" || req.Email == "" {
			return unprocessable(c, errors.New("value, reading_date, meter_serial_number and email are required"))
		}
		if err := svcs.Repos.CreateReading(c.Context(), *req.Value, req.ReadingDate, req.MeterSerial, req.Email); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Reading created successfully"})
	})

	app.Put("/update_reading", func(c *fiber.Ctx) error {
		var req apiReadingUpdate
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.ReadingID == nil || req.Value == nil || req.ReadingDate == "" {
			return unprocessable(c, errors.New("reading_id, value and reading_date are required"))
		}
		if err := svcs.Repos.UpdateReading(c.Context(), *req.ReadingID, *req.Value, req.ReadingDate); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Reading updated successfully"})
	})

	app.Delete("/delete_reading/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return unprocessable(c, errors.New("reading id must be an integer"))
		}
		if err := svcs.Repos.DeleteReading(c.Context(), id); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Reading deleted successfully"})
	})
}

func registerMeters(app *fiber.App, svcs *service.Services) {
	app.Get("/meters/:facility/:type?", func(c *fiber.Ctx) error {
		meters, err := svcs.Repos.ListMetersByFacility(c.Context(), c.Params("facility"), c.Params("type"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"meters": meters})
	})

	app.Post("/create_meter", func(c *fiber.Ctx) error {
		var req apiMeter
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.SerialNumber == "" || req.MeterType == "" || req.FacilityName == "" {
			return unprocessable(c, errors.New("serial_number, meter_type and facility_name are required"))
		}
		m := &domain.Meter{
			Serial:         req.SerialNumber,
			Type:           req.MeterType,
			PPE:            req.PPE,
			MultiplyFactor: 1,
			Description:    req.Description,
		}
		if req.MultiplyFactor != nil {
			m.MultiplyFactor = *req.MultiplyFactor
		}
		if err := svcs.Repos.CreateMeter(c.Context(), m, req.FacilityName); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Meter created successfully"})
	})

	app.Put("/update_meter", func(c *fiber.Ctx) error {
		var req apiMeter
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.SerialNumber == "" || req.MeterType == "" {
			return unprocessable(c, errors.New("serial_number and meter_type are required"))
		}
		factor := 1.0
		if req.MultiplyFactor != nil {
			factor = *req.MultiplyFactor
		}
		err := svcs.Repos.UpdateMeter(c.Context(), req.SerialNumber, req.MeterType, req.PPE, factor, req.Description)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Meter updated successfully"})
	})

	app.Delete("/delete_meter/:serial", func(c *fiber.Ctx) error {
		if err := svcs.Repos.DeleteMeter(c.Context(), c.Params("serial")); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Meter deleted successfully"})
	})
}

func registerFacilities(app *fiber.App, svcs *service.Services) {
	app.Get("/facilities", func(c *fiber.Ctx) error {
		facilities, err := svcs.Repos.ListFacilities(c.Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"facilities": facilities})
	})

	app.Get("/facilities/:name", func(c *fiber.Ctx) error {
		f, err := svcs.Repos.GetFacilityByName(c.Context(), c.Params("name"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"facility": f})
	})

	app.Post("/create_facility", func(c *fiber.Ctx) error {
		var req apiFacility
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Name == "" {
			return unprocessable(c, errors.New("name is required"))
		}
		if err := svcs.Repos.CreateFacility(c.Context(), req.Name, req.Address, req.Email); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Facility created successfully"})
	})

	app.Put("/update_facility", func(c *fiber.Ctx) error {
		var req apiFacility
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Name == "" {
			return unprocessable(c, errors.New("name is required"))
		}
		if err := svcs.Repos.UpdateFacility(c.Context(), req.Name, req.Address, req.Email); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Facility updated successfully"})
	})

	app.Delete("/delete_facility/:name", func(c *fiber.Ctx) error {
		if err := svcs.Repos.DeleteFacility(c.Context(), c.Params("name")); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Facility deleted successfully"})
	})

	app.Post("/assign_facility", func(c *fiber.Ctx) error {
		var req apiAssignment
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Email == "" || req.FacilityName == "" {
			return unprocessable(c, errors.New("email and facility_name are required"))
		}
		if err := svcs.Repos.AssignUserToFacility(c.Context(), req.Email, req.FacilityName); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User assigned successfully"})
	})

	app.Delete("/unassign_facility", func(c *fiber.Ctx) error {
		var req apiAssignment
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Email == "" || req.FacilityName == "" {
			return unprocessable(c, errors.New("email and facility_name are required"))
		}
		if err := svcs.Repos.UnassignUserFromFacility(c.Context(), req.Email, req.FacilityName); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User unassigned successfully"})
	})

	app.Get("/user_facilities/:email", func(c *fiber.Ctx) error {
		facilities, err := svcs.Repos.ListFacilitiesForUser(c.Context(), c.Params("email"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"facilities": facilities})
	})
}

func registerUsers(app *fiber.App, svcs *service.Services) {
	app.Get("/users", func(c *fiber.Ctx) error {
		users, err := svcs.Repos.ListUsers(c.Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"users": users})
	})

	app.Get("/users/:email", func(c *fiber.Ctx) error {
		u, err := svcs.Repos.GetUserByEmail(c.Context(), c.Params("email"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"user": u})
	})

	app.Post("/create_user", func(c *fiber.Ctx) error {
		var req apiUser
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Email == "" || req.Password == "" || req.AccessLevel == nil {
			return unprocessable(c, errors.New("email, password and access_level are required"))
		}
		if err := svcs.Repos.CreateUser(c.Context(), req.Email, req.Password, *req.AccessLevel); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
	})

	app.Put("/update_user", func(c *fiber.Ctx) error {
		var req apiUser
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		if req.Email == "" || req.Password == "" || req.AccessLevel == nil {
			return unprocessable(c, errors.New("email, password and access_level are required"))
		}
		if err := svcs.Repos.UpdateUser(c.Context(), req.Email, req.Password, *req.AccessLevel); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User updated successfully"})
	})

	app.Put("/block_user/:email", func(c *fiber.Ctx) error {
		if err := svcs.Repos.BlockUser(c.Context(), c.Params("email")); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User blocked successfully"})
	})

	app.Delete("/delete_user/:email", func(c *fiber.Ctx) error {
		if err := svcs.Repos.DeleteUser(c.Context(), c.Params("email")); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	})

	app.Post("/login", func(c *fiber.Ctx) error {
		var req apiLogin
		if err := c.BodyParser(&req); err != nil {
			return unprocessable(c, err)
		}
		u, err := svcs.Repos.Login(c.Context(), req.Email, req.Password)
		if errors.Is(err, domain.ErrNotAuthenticated) {
			// bad credentials are a regular outcome, not an HTTP failure
			return c.JSON(fiber.Map{"message": "Invalid credentials", "user": nil})
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Login successful", "user": u})
	})
}

func registerReports(app *fiber.App, svcs *service.Services) {
	app.Post("/reports/:facility", func(c *fiber.Ctx) error {
		if svcs.Reports == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"detail": "cloud services are disabled"})
		}
		url, err := svcs.Reports.PublishFacilityReport(c.Context(), c.Params("facility"))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report published successfully", "url": url})
	})

	app.Get("/reports/:facility", func(c *fiber.Ctx) error {
		if svcs.Reports == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"detail": "cloud services are disabled"})
		}
		keys, err := svcs.Reports.ListFacilityReports(c.Context(), c.Params("facility"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"reports": keys})
	})
}

func unprocessable(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
	}
}
