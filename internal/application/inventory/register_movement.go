package inventory

import (
	"context"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, itemID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	input := MovementInputDTO{
		ItemID:         itemID,
		UserID:         userID,
		Direction:      in.Direction,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		LotLabel:       in.LotLabel,
		ExpirationDate: in.ExpirationDate,
		Date:           in.Date,
		Notes:          in.Notes,
	}
	return uc.RegisterMovement(ctx, input)
}
