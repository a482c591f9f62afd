package adapters

import (
	"context"
	"time"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

const (
	favoritesRecordType = "favorites"
	recentRecordType    = "recent"
)

type dynamoFavoritesItem struct {
	UserId     string        `dynamodbav:"user_id"`
	RecordType string        `dynamodbav:"record_type"`
	Favorites  []string      `dynamodbav:"favorites,omitempty"`
	Recent     []recentEntry `dynamodbav:"recent,omitempty"`
	TTL        int64         `dynamodbav:"ttl,omitempty"`
}

type dynamoFavoritesStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

// NewDynamoFavoritesStore keeps favorites and recently-used ids in a table
// keyed by user_id and record_type.
func NewDynamoFavoritesStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.FavoritesStorePort {
	return &dynamoFavoritesStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (s *dynamoFavoritesStore) Favorites(ctx context.Context, userID string) (map[string]struct{}, error) {
	item, err := s.getItem(ctx, userID, favoritesRecordType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(item.Favorites))
	for _, id := range item.Favorites {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *dynamoFavoritesStore) UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) error {
	item, err := s.getItem(ctx, userID, favoritesRecordType)
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(item.Favorites))
	for _, id := range item.Favorites {
		current[id] = struct{}{}
	}
	for _, id := range voiceIDs {
		if id == "" {
			continue
		}
		if favorite {
			current[id] = struct{}{}
		} else {
			delete(current, id)
		}
	}

	item.Favorites = item.Favorites[:0]
	for id := range current {
		item.Favorites = append(item.Favorites, id)
	}
	return s.putItem(ctx, item)
}

func (s *dynamoFavoritesStore) AddRecent(ctx context.Context, userID string, voiceID string) error {
	if voiceID == "" {
		return nil
	}
	item, err := s.getItem(ctx, userID, recentRecordType)
	if err != nil {
		return err
	}

	recent := make([]recentEntry, 0, len(item.Recent)+1)
	recent = append(recent, recentEntry{VoiceID: voiceID, UsedAt: time.Now().Unix()})
	for _, entry := range item.Recent {
		if entry.VoiceID == voiceID {
			continue
		}
		recent = append(recent, entry)
	}
	if len(recent) > maxRecentEntries {
		recent = recent[:maxRecentEntries]
	}
	item.Recent = recent
	return s.putItem(ctx, item)
}

func (s *dynamoFavoritesStore) RecentIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	item, err := s.getItem(ctx, userID, recentRecordType)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, limit)
	for _, entry := range item.Recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, entry.VoiceID)
	}
	return out, nil
}

func (s *dynamoFavoritesStore) getItem(ctx context.Context, userID string, recordType string) (*dynamoFavoritesItem, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"user_id":     {S: aws.String(userID)},
			"record_type": {S: aws.String(recordType)},
		},
		ConsistentRead: aws.Bool(true),
	}
	result, err := s.dynamoSvc.GetItemWithContext(ctx, input)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to read favorites item", map[string]interface{}{
			"user_id":     userID,
			"record_type": recordType,
		})
		return nil, err
	}

	item := &dynamoFavoritesItem{UserId: userID, RecordType: recordType}
	if len(result.Item) == 0 {
		return item, nil
	}
	if err := dynamodbattribute.UnmarshalMap(result.Item, item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal favorites item", map[string]interface{}{
			"user_id":     userID,
			"record_type": recordType,
		})
		return nil, err
	}
	return item, nil
}

func (s *dynamoFavoritesStore) putItem(ctx context.Context, item *dynamoFavoritesItem) error {
	if s.dynamoConfig.TtlMinutes > 0 {
		item.TTL = time.Now().Add(time.Duration(s.dynamoConfig.TtlMinutes) * time.Minute).Unix()
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal favorites item", map[string]interface{}{
			"user_id": item.UserId,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.TableName),
	}
	if _, err := s.dynamoSvc.PutItemWithContext(ctx, input); err != nil {
		s.logger.ErrorWithFields(err, "Failed to save favorites item", map[string]interface{}{
			"user_id": item.UserId,
		})
		return err
	}
	return nil
}
