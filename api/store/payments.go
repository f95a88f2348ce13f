/* payments.go
 * Contains the methods for interacting with the payments and payoutRequests collections
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertPayment stores a new payment record and returns its hex id
func (s *Store) InsertPayment(ctx context.Context, payment Payment) (string, error) {
	res, err := s.Collections.Payments.InsertOne(ctx, payment)
	if err != nil {
		return "", fmt.Errorf("failed to insert payment %s: %w", payment.TxRef, err)
	}
	return insertedHex(res)
}

// GetPayment does DB lookup for a payment by id
func (s *Store) GetPayment(ctx context.Context, id string) (Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Payment{}, mongo.ErrNoDocuments
	}
	return s.findPayment(ctx, bson.M{"_id": oid})
}

// GetPaymentByTxRef does DB lookup for a payment by the reference handed to the provider
func (s *Store) GetPaymentByTxRef(ctx context.Context, txRef string) (Payment, error) {
	return s.findPayment(ctx, bson.M{"txRef": txRef})
}

func (s *Store) findPayment(ctx context.Context, filter bson.M) (Payment, error) {
	var result Payment
	err := s.Collections.Payments.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if isNotFound(err) {
			return Payment{}, err
		}
		return Payment{}, fmt.Errorf("error fetching payment from db: %w", err)
	}
	return result, nil
}

// TransitionPayment moves a payment to a new status, but only while it is in one of the from statuses. Provider
// callbacks can arrive more than once; only the first one wins.
// Preconditions: Receives context, payment id, allowed current statuses, new status and the fields to set with it
// Postconditions: Returns nil on success, mongo.ErrNoDocuments if the payment is missing, ErrStatusChanged if it is in
// another status, or another error if it occurs
func (s *Store) TransitionPayment(ctx context.Context, id string, from []string, to string, update PaymentUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	set, err := toSetDocument(update)
	if err != nil {
		return err
	}
	set["status"] = to

	filter := bson.M{"_id": oid, "status": bson.M{"$in": from}}
	res, err := s.Collections.Payments.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetPayment(ctx, id); err != nil {
			return err
		}
		return ErrStatusChanged
	}
	return nil
}

// InsertPayoutRequest stores an opened payout request and returns its hex id
func (s *Store) InsertPayoutRequest(ctx context.Context, req PayoutRequest) (string, error) {
	res, err := s.Collections.PayoutRequests.InsertOne(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to insert payout request: %w", err)
	}
	return insertedHex(res)
}

// ListPayoutRequests returns every payout request, newest first
func (s *Store) ListPayoutRequests(ctx context.Context) ([]PayoutRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.Collections.PayoutRequests.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching payout requests from db: %w", err)
	}

	results := []PayoutRequest{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of payout requests: %w", err)
	}
	return results, nil
}
