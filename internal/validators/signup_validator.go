package validators

import (
	"fmt"

	"prohealth/internal/models"
	"prohealth/internal/utils"
)

const maxBatchSize = 100

func ValidateBulkValidate(req *models.BulkValidateRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if len(req.CustomerIDs) > maxBatchSize {
		return fmt.Errorf("a batch may hold at most %d signups", maxBatchSize)
	}
	if req.Defaults != nil {
		return validateDefaults(req.Defaults)
	}
	return nil
}

func ValidateBulkReject(customerIDs []string) error {
	if len(customerIDs) == 0 {
		return fmt.Errorf("customer_ids must not be empty")
	}
	if len(customerIDs) > maxBatchSize {
		return fmt.Errorf("a batch may hold at most %d signups", maxBatchSize)
	}
	return nil
}
