// repositories/referral_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

// ReferralRepository reads referred-investor data from both the current
// dealMemberships model and the legacy subscriptions model.
type ReferralRepository struct {
	db *mongo.Client
}

func NewReferralRepository(db *mongo.Client) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// ListReferredInvestors returns the merged, deduplicated referral listing
// for one referring entity. An entity with no referrals yields an empty
// slice.
func (r *ReferralRepository) ListReferredInvestors(ctx context.Context, entityType models.ReferringEntityType, entityID primitive.ObjectID) ([]ReferredInvestor, error) {
	memberships, err := r.membershipReferrals(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	legacy, err := r.legacyReferrals(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	merged := MergeReferredInvestors(memberships, legacy)

	if err := r.decorate(ctx, entityType, entityID, merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// membershipReferrals queries the current model, most-recent-invited-first.
func (r *ReferralRepository) membershipReferrals(ctx context.Context, entityType models.ReferringEntityType, entityID primitive.ObjectID) ([]MembershipReferral, error) {
	coll := config.GetCollection(r.db, "dealMemberships")

	filter := bson.M{
		"referredBy.type": entityType,
		"referredBy.id":   entityID,
		"investorId":      bson.M{"$exists": true, "$ne": primitive.NilObjectID},
	}
	opts := options.Find().SetSort(bson.D{{Key: "invitedAt", Value: -1}})

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.DealMembership
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	referrals := make([]MembershipReferral, 0, len(rows))
	for _, m := range rows {
		referrals = append(referrals, MembershipReferral{
			InvestorID: m.InvestorID,
			DealID:     m.DealID,
			UserID:     m.UserID,
			FeePlanID:  m.AssignedFeePlanID,
			InvitedAt:  m.InvitedAt,
		})
	}
	return referrals, nil
}

// legacyReferrals queries the old subscription linkage, most-recent-created-
// first. Only introducers and partners exist in the legacy schema; commercial
// partners postdate the migration and have no legacy rows.
func (r *ReferralRepository) legacyReferrals(ctx context.Context, entityType models.ReferringEntityType, entityID primitive.ObjectID) ([]LegacyReferral, error) {
	var filter bson.M
	switch entityType {
	case models.EntityIntroducer:
		filter = bson.M{"introducerId": entityID}
	case models.EntityPartner:
		filter = bson.M{"partnerId": entityID}
	case models.EntityCommercialPartner:
		return nil, nil
	default:
		return nil, models.ErrUnknownEntityType
	}

	coll := config.GetCollection(r.db, "subscriptions")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.Subscription
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	referrals := make([]LegacyReferral, 0, len(rows))
	for _, s := range rows {
		referrals = append(referrals, LegacyReferral{
			InvestorID:         s.InvestorID,
			DealID:             s.DealID,
			SubscriptionStatus: s.Status,
			SubscriptionAmount: s.Amount,
			Currency:           s.Currency,
			CreatedAt:          s.CreatedAt,
		})
	}
	return referrals, nil
}

// decorate fills in investor and deal names plus the can_dispatch flag on
// the merged listing. can_dispatch is false once an accepted fee plan exists
// for the (deal, entity, term sheet) triple: the one-accepted-plan rule is
// advisory and enforced here rather than in the state machine.
func (r *ReferralRepository) decorate(ctx context.Context, entityType models.ReferringEntityType, entityID primitive.ObjectID, listing []ReferredInvestor) error {
	if len(listing) == 0 {
		return nil
	}

	investorIDs := make([]primitive.ObjectID, 0, len(listing))
	dealIDs := make([]primitive.ObjectID, 0, len(listing))
	planIDs := make([]primitive.ObjectID, 0, len(listing))
	for _, entry := range listing {
		investorIDs = append(investorIDs, entry.InvestorID)
		dealIDs = append(dealIDs, entry.DealID)
		if !entry.FeePlanID.IsZero() {
			planIDs = append(planIDs, entry.FeePlanID)
		}
	}

	investorNames, err := r.namesByID(ctx, "investors", investorIDs)
	if err != nil {
		return err
	}
	dealNames, err := r.namesByID(ctx, "deals", dealIDs)
	if err != nil {
		return err
	}

	accepted, err := r.acceptedFeePlans(ctx, entityType, entityID, dealIDs)
	if err != nil {
		return err
	}
	planTermSheets, err := r.assignedPlanTermSheets(ctx, planIDs)
	if err != nil {
		return err
	}

	for i := range listing {
		listing[i].InvestorName = investorNames[listing[i].InvestorID]
		listing[i].DealName = dealNames[listing[i].DealID]
	}
	applyCanDispatch(listing, planTermSheets, accepted)
	return nil
}

func (r *ReferralRepository) namesByID(ctx context.Context, collection string, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	cursor, err := config.GetCollection(r.db, collection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(docs))
	for _, doc := range docs {
		names[doc.ID] = doc.Name
	}
	return names, nil
}

// dealTermSheet keys an accepted plan by its (deal, term sheet) pair; the
// entity is fixed by the query that builds the map.
type dealTermSheet struct {
	DealID      primitive.ObjectID
	TermSheetID primitive.ObjectID
}

// acceptedFeePlans returns the (deal, term sheet) pairs for which the entity
// already holds an accepted fee plan, restricted to deals in the listing.
func (r *ReferralRepository) acceptedFeePlans(ctx context.Context, entityType models.ReferringEntityType, entityID primitive.ObjectID, dealIDs []primitive.ObjectID) (map[dealTermSheet]bool, error) {
	cursor, err := config.GetCollection(r.db, "feePlans").Find(ctx, bson.M{
		"entity.type": entityType,
		"entity.id":   entityID,
		"dealId":      bson.M{"$in": dealIDs},
		"status":      models.FeePlanAccepted,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.FeePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}

	accepted := make(map[dealTermSheet]bool, len(plans))
	for _, plan := range plans {
		accepted[dealTermSheet{DealID: plan.DealID, TermSheetID: plan.TermSheetID}] = true
	}
	return accepted, nil
}

// assignedPlanTermSheets resolves the term sheet behind each fee plan
// assigned to a membership row, so the row can be matched against accepted
// plans on the same term sheet.
func (r *ReferralRepository) assignedPlanTermSheets(ctx context.Context, planIDs []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}

	cursor, err := config.GetCollection(r.db, "feePlans").Find(ctx, bson.M{"_id": bson.M{"$in": planIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.FeePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}

	sheets := make(map[primitive.ObjectID]primitive.ObjectID, len(plans))
	for _, plan := range plans {
		sheets[plan.ID] = plan.TermSheetID
	}
	return sheets, nil
}

// applyCanDispatch fills the can_dispatch flag. Dispatch is blocked once an
// accepted fee plan exists for the (deal, entity, term sheet) triple. Rows
// with an assigned fee plan check the plan's own term sheet; rows without one
// (legacy rows, memberships with no plan yet) carry no term sheet, so any
// accepted plan on the deal blocks them.
func applyCanDispatch(listing []ReferredInvestor, planTermSheets map[primitive.ObjectID]primitive.ObjectID, accepted map[dealTermSheet]bool) {
	acceptedByDeal := make(map[primitive.ObjectID]bool, len(accepted))
	for key := range accepted {
		acceptedByDeal[key.DealID] = true
	}

	for i := range listing {
		if termSheetID, ok := planTermSheets[listing[i].FeePlanID]; ok {
			listing[i].CanDispatch = !accepted[dealTermSheet{DealID: listing[i].DealID, TermSheetID: termSheetID}]
			continue
		}
		listing[i].CanDispatch = !acceptedByDeal[listing[i].DealID]
	}
}
