package rental

// Simulated payment processing. Charges always succeed and never touch a real
// processor; the is_simulation flag rides along on every transaction so a
// future real integration cannot be confused with this one.

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// chargeDetails is the simulated processor's view of the card that was charged
type chargeDetails struct {
	cardType string
	lastFour string
	display  string
}

// charge resolves the user's card on file. Users without a payment method are
// still charged the simulated default card so the ride can complete.
func (l *Lifecycle) charge(ctx context.Context, userID string) chargeDetails {
	details := chargeDetails{cardType: "Card", lastFour: "****"}

	user, err := l.Users.FindOne(ctx, bson.M{"id": userID})
	if err != nil {
		zap.S().Warnw("no payment method on file, using simulated default",
			"user_id", userID, "error", err)
	} else if user.PaymentMethod != nil {
		if user.PaymentMethod.CardType != "" {
			details.cardType = user.PaymentMethod.CardType
		}
		if user.PaymentMethod.CardLastFour != "" {
			details.lastFour = user.PaymentMethod.CardLastFour
		}
	}

	details.display = fmt.Sprintf("%s ****%s", details.cardType, details.lastFour)
	return details
}

// newTransactionID returns an id like TXN-20260115093042-1A2B3C4D
func newTransactionID(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102150405"), random)
}

// newAuthorizationCode returns a fake processor authorization like AUTH483920
func newAuthorizationCode() string {
	return fmt.Sprintf("AUTH%06d", 100000+rand.Intn(900000))
}
