package aws

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const serviceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// Options selects the region and shared-config profile for the KMS key backend.
type Options struct {
	Region  string
	Profile string
}

// LoadAWSConfig loads the default credential chain. A profile is only pinned
// outside Kubernetes, where pods authenticate with their service account.
func LoadAWSConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if profile := resolveProfile(opts.Profile); profile != "" && !isInKubernetes() {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func isInKubernetes() bool {
	_, err := os.Stat(serviceAccountTokenPath)
	return err == nil
}

func resolveProfile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv("AWS_PROFILE")
}

// CallerIdentity reports which principal the loaded credentials belong to.
func CallerIdentity(ctx context.Context, cfg aws.Config) (*sts.GetCallerIdentityOutput, error) {
	return sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
}
