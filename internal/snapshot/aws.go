package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marketscout/intel-monitor/internal/analytics"
	"github.com/marketscout/intel-monitor/internal/config"
)

// AWSStore writes the latest snapshot to DynamoDB for fast reads and the
// full history to S3.
type AWSStore struct {
	dynamoDB  *dynamodb.Client
	s3Client  *s3.Client
	tableName string
	bucket    string
}

type snapshotItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Data      string `dynamodbav:"Data"`
	Timestamp string `dynamodbav:"Timestamp"`
	TTL       int64  `dynamodbav:"TTL,omitempty"`
}

// NewAWSStore loads the AWS credential chain and wires both clients.
func NewAWSStore(ctx context.Context, cfg config.SnapshotConfig) (*AWSStore, error) {
	var awsCfg aws.Config
	var err error

	if profile := cfg.GetAWSProfile(); profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &AWSStore{
		dynamoDB:  dynamodb.NewFromConfig(awsCfg),
		s3Client:  s3.NewFromConfig(awsCfg),
		tableName: cfg.DynamoDBTable,
		bucket:    cfg.S3Bucket,
	}, nil
}

func (s *AWSStore) Save(ctx context.Context, ownerID string, dash analytics.Dashboard) error {
	data, err := json.Marshal(dash)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	now := time.Now().UTC()
	item := snapshotItem{
		PK:        "SNAPSHOT#" + ownerID,
		SK:        "LATEST",
		Data:      string(data),
		Timestamp: now.Format(time.RFC3339),
		TTL:       now.Add(90 * 24 * time.Hour).Unix(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := s.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put snapshot item: %w", err)
	}

	// History copy, one object per save.
	key := fmt.Sprintf("snapshots/%s/%s.json", ownerID, now.Format("2006/01/02/15-04-05"))
	if _, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}
	return nil
}

func (s *AWSStore) Latest(ctx context.Context, ownerID string) (*analytics.Dashboard, error) {
	result, err := s.dynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]dbtypes.AttributeValue{
			"PK": &dbtypes.AttributeValueMemberS{Value: "SNAPSHOT#" + ownerID},
			"SK": &dbtypes.AttributeValueMemberS{Value: "LATEST"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get snapshot item: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNoSnapshot
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	var dash analytics.Dashboard
	if err := json.Unmarshal([]byte(item.Data), &dash); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &dash, nil
}
