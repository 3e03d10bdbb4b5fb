package account

import (
	"net/http"

	"github.com/noah-isme/beehouse-checkout/internal/common"
)

// Handler serves registration pre-checks.
type Handler struct{}

// Validate answers 200 when the form passes and 422 with every failure otherwise.
func (Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req Registration
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := common.Validate(req, phoneField); err != nil {
		common.WriteError(w, err)
		return
	}
	res := ValidateRegistration(req)
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	common.Data(w, status, res)
}
