package config

// LakeConfig controls where partitioned snapshots are landed.
type LakeConfig struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint, used for localstack/minio runs.
	Endpoint string
}

func loadLake() LakeConfig {
	return LakeConfig{
		Bucket:   envOrDefault(envS3Bucket, ""),
		Region:   envOrDefault(envAWSRegion, defaultAWSRegion),
		Endpoint: envOrDefault(envS3Endpoint, ""),
	}
}
