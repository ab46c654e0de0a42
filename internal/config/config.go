package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env-required:"true" env-default:"production"`
	PGSQL      PGSQL      `yaml:"pgsql" env-required:"true"`
	Redis      Redis      `yaml:"redis"`
	MinIO      MinIO      `yaml:"minio" env-required:"true"`
	Uploads    Uploads    `yaml:"uploads"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	JWTSecret  string     `yaml:"jwt_secret" env-required:"true" env-default:"super_secret_key"`
}

type HTTPServer struct {
	Address string `yaml:"address" env-required:"true" env-default:"localhost:8080"`
}

type PGSQL struct {
	Host     string `yaml:"host" env-required:"true" env-default:"localhost"`
	Port     string `yaml:"port" env-required:"true" env-default:"5432"`
	User     string `yaml:"user" env-required:"true" env-default:"postgres"`
	Password string `yaml:"password" env-required:"true" env-default:"password"`
	DBName   string `yaml:"dbname" env-required:"true" env-default:"videos_db"`
	SSLMode  string `yaml:"sslmode" env-required:"true" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env-default:"localhost:6379"`
	Password string `yaml:"password" env-default:""`
	DB       int    `yaml:"db" env-default:"0"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env-default:"minioadmin"`
	BucketName      string `yaml:"bucket_name" env-default:"videos"`
	UseSSL          bool   `yaml:"use_ssl" env-default:"false"`
}

// Uploads holds the ingestion policy: size ceilings and content-type
// allow-lists per asset kind, plus the local directories the pipeline
// writes to.
type Uploads struct {
	ScratchDir         string   `yaml:"scratch_dir" env-default:"/tmp/videos-scratch"`
	AssetsDir          string   `yaml:"assets_dir" env-default:"./assets"`
	AssetsURLBase      string   `yaml:"assets_url_base" env-default:"/assets"`
	VideoMaxBytes      int64    `yaml:"video_max_bytes" env-default:"1073741824"`
	VideoMimeTypes     []string `yaml:"video_mime_types" env-default:"video/mp4"`
	ThumbnailMaxBytes  int64    `yaml:"thumbnail_max_bytes" env-default:"10485760"`
	ThumbnailMimeTypes []string `yaml:"thumbnail_mime_types" env-default:"image/jpeg,image/png"`
	FFProbeBin         string   `yaml:"ffprobe_bin" env-default:"ffprobe"`
	ScratchMaxAge      string   `yaml:"scratch_max_age" env-default:"1h"`
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
