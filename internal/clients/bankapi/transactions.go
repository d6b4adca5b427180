package bankapi

import (
	"context"
	"fmt"

	"github.com/yungbote/bankadmin/internal/domain"
)

// PostTransaction sends a credit or debit. The endpoint is chosen from
// req.Type.
func (c *Client) PostTransaction(ctx context.Context, token string, req domain.TransactionRequest) (domain.TransactionReceipt, error) {
	var receipt domain.TransactionReceipt
	switch req.Type {
	case domain.KindCredit, domain.KindDebit:
	default:
		return receipt, fmt.Errorf("unknown transaction type %q", req.Type)
	}
	_, err := c.Post(ctx, string(req.Type), token, req, &receipt)
	return receipt, err
}
