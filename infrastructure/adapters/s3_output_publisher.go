package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3OutputPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3OutputPublisher(logger outbound.LoggerPort, s3Config *config.S3Config) outbound.OutputPublisherPort {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(s3Config.Region)})
	if err != nil {
		logger.Error(err, "Failed to create session")
	}
	return &s3OutputPublisher{
		logger:   logger,
		s3Svc:    s3.New(sess),
		s3Config: s3Config,
	}
}

func (p *s3OutputPublisher) Publish(ctx context.Context, req outbound.PublishOutputRequest) (*outbound.PublishOutputResult, error) {
	key := "outputs/" + req.PublicName

	file, err := os.Open(req.SourcePath)
	if err != nil {
		p.logger.Error(err, "Failed to open output file")
		return nil, err
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			p.logger.Error(err, "Failed to close output file")
		}
	}(file)

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(p.s3Config.BucketName),
		Key:    aws.String(key),
		Body:   file,
	}
	if req.Mime != "" {
		putInput.ContentType = aws.String(req.Mime)
	}

	if _, err := p.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		p.logger.Error(err, "Failed to upload object to S3")
		return nil, err
	}

	return &outbound.PublishOutputResult{
		PublicName: req.PublicName,
		PublicURL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.s3Config.BucketName, p.s3Config.Region, key),
	}, nil
}
