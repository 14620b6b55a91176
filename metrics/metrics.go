// Package metrics - metrics/metrics.go
// Best-effort CloudWatch counters for console operations. Disabled unless
// METRICS_ENABLED=true so tests and local runs never touch AWS.
package metrics

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"go-footy-trivia/logger"
)

// Namespace for all console metrics
var metricsNamespace = "FootyTrivia"

// Reuse a single CloudWatch client for all metrics calls, created lazily on
// first publish.
var cwClient *cloudwatch.CloudWatch

func enabled() bool {
	return os.Getenv("METRICS_ENABLED") == "true"
}

// PublishConsoleCommit counts a successful inline-edit commit per collection.
func PublishConsoleCommit(collection string) {
	putMetric("ConsoleCommit", 1, "Count", collection)
}

// PublishConsoleRemoteError counts a failed remote call per collection.
func PublishConsoleRemoteError(collection string) {
	putMetric("ConsoleRemoteError", 1, "Count", collection)
}

// PublishQuizServed counts quiz question batches served.
func PublishQuizServed(count int) {
	putMetric("QuizServed", float64(count), "Count", "quiz")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, collection string) {
	if !enabled() {
		return
	}
	if cwClient == nil {
		cwClient = cloudwatch.New(session.Must(session.NewSession()))
	}
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Collection"),
						Value: aws.String(collection),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
