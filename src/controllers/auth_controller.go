package controllers

import (
	authService "Backend-Brokerflow/src/services/auth"
	"Backend-Brokerflow/src/utils"

	"github.com/gofiber/fiber/v2"
)

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate and receive a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body loginIn true "Credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/login [post]
func Login(c *fiber.Ctx) error {
	var in loginIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	user, err := authService.AuthenticateUser(in.Email, in.Password)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, err.Error())
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Name, user.Role, user.AgencyID.Hex())
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
