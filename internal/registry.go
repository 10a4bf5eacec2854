package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
	"github.com/spacelift-io/gpuautoscalr/internal/ifaces"
)

const (
	partitionKey      = "pk"
	workerKeyPrefix   = "worker#"
	scalingStateKey   = "state#scaling"
	lastScalingAttrib = "at"
)

// ErrWorkerNotFound is returned when updating a worker which has no record.
var ErrWorkerNotFound = errors.New("worker not found")

// Registry stores the fleet's worker records and the time of the last
// scaling action.
//
//go:generate mockery --output ./ --name Registry --filename mock_registry_test.go --outpkg internal_test
type Registry interface {
	ListWorkers(ctx context.Context) ([]engine.Worker, error)
	GetWorker(ctx context.Context, workerID string) (*WorkerRecord, error)
	RegisterWorker(ctx context.Context, record WorkerRecord) error
	MarkProvisioned(ctx context.Context, workerID, podID string, gpuCount int) error
	RecordPing(ctx context.Context, workerID string, at time.Time) error
	DeleteWorker(ctx context.Context, workerID string) error
	LastScaling(ctx context.Context) (time.Time, error)
	SetLastScaling(ctx context.Context, at time.Time) error
}

// DynamoDBRegistry keeps worker records in a single DynamoDB table keyed by
// "pk". Worker items use the "worker#" prefix; the cooldown timestamp lives
// in its own item.
type DynamoDBRegistry struct {
	// Clients.
	DynamoDB ifaces.DynamoDB

	// Configuration.
	TableName string

	// Telemetry.
	Tracer trace.Tracer
}

// NewDynamoDBRegistry creates a registry using the default AWS credential
// chain.
func NewDynamoDBRegistry(ctx context.Context, cfg *RuntimeConfig) (*DynamoDBRegistry, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.FleetTableRegion != "" {
		opts = append(opts, config.WithRegion(cfg.FleetTableRegion))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	otelaws.AppendMiddlewares(&awsConfig.APIOptions)

	return &DynamoDBRegistry{
		DynamoDB:  dynamodb.NewFromConfig(awsConfig),
		TableName: cfg.FleetTableName,
		Tracer:    otel.Tracer("github.com/spacelift-io/gpuautoscalr/internal/registry"),
	}, nil
}

func stringValue(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func workerKey(workerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{partitionKey: stringValue(workerKeyPrefix + workerID)}
}

// ListWorkers returns all the registered workers.
func (r *DynamoDBRegistry) ListWorkers(ctx context.Context) (workers []engine.Worker, err error) {
	ctx, span := r.Tracer.Start(ctx, "registry.workers.list")
	defer span.End()

	paginator := dynamodb.NewScanPaginator(r.DynamoDB, &dynamodb.ScanInput{
		TableName:                 aws.String(r.TableName),
		ConsistentRead:            aws.Bool(true),
		FilterExpression:          aws.String("begins_with(#pk, :prefix)"),
		ExpressionAttributeNames:  map[string]string{"#pk": partitionKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":prefix": stringValue(workerKeyPrefix)},
	})

	for paginator.HasMorePages() {
		var page *dynamodb.ScanOutput

		if page, err = paginator.NextPage(ctx); err != nil {
			err = fmt.Errorf("could not scan worker records: %w", err)
			return nil, err
		}

		var records []WorkerRecord
		if err = attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			err = fmt.Errorf("could not decode worker records: %w", err)
			return nil, err
		}

		for _, record := range records {
			workers = append(workers, record.Engine())
		}
	}

	span.SetAttributes(attribute.Int("workers", len(workers)))

	return workers, nil
}

// GetWorker returns the worker record, or nil if there is none.
func (r *DynamoDBRegistry) GetWorker(ctx context.Context, workerID string) (*WorkerRecord, error) {
	ctx, span := r.Tracer.Start(ctx, "registry.worker.get")
	defer span.End()

	span.SetAttributes(attribute.String("worker_id", workerID))

	output, err := r.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.TableName),
		Key:            workerKey(workerID),
		ConsistentRead: aws.Bool(true),
	})

	if err != nil {
		return nil, fmt.Errorf("could not get worker record: %w", err)
	}

	if len(output.Item) == 0 {
		return nil, nil
	}

	var record WorkerRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return nil, fmt.Errorf("could not decode worker record: %w", err)
	}

	return &record, nil
}

// RegisterWorker stores a new worker record. It fails if the worker is
// already registered.
func (r *DynamoDBRegistry) RegisterWorker(ctx context.Context, record WorkerRecord) error {
	ctx, span := r.Tracer.Start(ctx, "registry.worker.register")
	defer span.End()

	span.SetAttributes(attribute.String("worker_id", record.ID))

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("could not encode worker record: %w", err)
	}

	item[partitionKey] = stringValue(workerKeyPrefix + record.ID)

	_, err = r.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.TableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": partitionKey},
	})

	if err != nil {
		return fmt.Errorf("could not register worker: %w", err)
	}

	return nil
}

// MarkProvisioned attaches the pod to a registered worker.
func (r *DynamoDBRegistry) MarkProvisioned(ctx context.Context, workerID, podID string, gpuCount int) error {
	ctx, span := r.Tracer.Start(ctx, "registry.worker.provisioned")
	defer span.End()

	span.SetAttributes(
		attribute.String("worker_id", workerID),
		attribute.String("pod_id", podID),
		attribute.Int("gpu_count", gpuCount),
	)

	return r.updateWorker(ctx, workerID, "SET pod_id = :pod, gpu_count = :gpus", map[string]types.AttributeValue{
		":pod":  stringValue(podID),
		":gpus": &types.AttributeValueMemberN{Value: fmt.Sprint(gpuCount)},
	})
}

// RecordPing stores a heartbeat from the worker.
func (r *DynamoDBRegistry) RecordPing(ctx context.Context, workerID string, at time.Time) error {
	ctx, span := r.Tracer.Start(ctx, "registry.worker.ping")
	defer span.End()

	span.SetAttributes(attribute.String("worker_id", workerID))

	value, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("could not encode ping time: %w", err)
	}

	return r.updateWorker(ctx, workerID, "SET last_ping = :at", map[string]types.AttributeValue{":at": value})
}

func (r *DynamoDBRegistry) updateWorker(ctx context.Context, workerID, expression string, values map[string]types.AttributeValue) error {
	_, err := r.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.TableName),
		Key:                       workerKey(workerID),
		UpdateExpression:          aws.String(expression),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  map[string]string{"#pk": partitionKey},
		ExpressionAttributeValues: values,
	})

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return fmt.Errorf("could not update worker %s: %w", workerID, ErrWorkerNotFound)
	}

	if err != nil {
		return fmt.Errorf("could not update worker %s: %w", workerID, err)
	}

	return nil
}

// DeleteWorker removes the worker record. Deleting a missing record is not an
// error.
func (r *DynamoDBRegistry) DeleteWorker(ctx context.Context, workerID string) error {
	ctx, span := r.Tracer.Start(ctx, "registry.worker.delete")
	defer span.End()

	span.SetAttributes(attribute.String("worker_id", workerID))

	_, err := r.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.TableName),
		Key:       workerKey(workerID),
	})

	if err != nil {
		return fmt.Errorf("could not delete worker record: %w", err)
	}

	return nil
}

// LastScaling returns the time of the last scaling action, or the zero time
// if the fleet was never scaled.
func (r *DynamoDBRegistry) LastScaling(ctx context.Context) (time.Time, error) {
	ctx, span := r.Tracer.Start(ctx, "registry.scaling.get")
	defer span.End()

	output, err := r.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.TableName),
		Key:            map[string]types.AttributeValue{partitionKey: stringValue(scalingStateKey)},
		ConsistentRead: aws.Bool(true),
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("could not get last scaling time: %w", err)
	}

	value, ok := output.Item[lastScalingAttrib]
	if !ok {
		return time.Time{}, nil
	}

	var at time.Time
	if err := attributevalue.Unmarshal(value, &at); err != nil {
		return time.Time{}, fmt.Errorf("could not decode last scaling time: %w", err)
	}

	return at, nil
}

// SetLastScaling stores the time of the last scaling action.
func (r *DynamoDBRegistry) SetLastScaling(ctx context.Context, at time.Time) error {
	ctx, span := r.Tracer.Start(ctx, "registry.scaling.set")
	defer span.End()

	value, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("could not encode last scaling time: %w", err)
	}

	_, err = r.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.TableName),
		Item: map[string]types.AttributeValue{
			partitionKey:      stringValue(scalingStateKey),
			lastScalingAttrib: value,
		},
	})

	if err != nil {
		return fmt.Errorf("could not set last scaling time: %w", err)
	}

	return nil
}
