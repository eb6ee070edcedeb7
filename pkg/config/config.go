package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Retrieval RetrievalConfig
	Assistant AssistantConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type OpenAIConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	RequestTimeout time.Duration
}

// RetrievalConfig bounds the knowledge store queries. AnchorLimit caps
// the single-topic re-query, ProbeLimit the initial broad probe and
// BroadLimit the multi-topic re-query.
type RetrievalConfig struct {
	AnchorLimit int
	ProbeLimit  int
	BroadLimit  int
}

// AssistantConfig is the per-deployment data that used to be copy-pasted
// across chatbot variants: canned replies, collection names and the
// supported category set.
type AssistantConfig struct {
	Name                string
	GreetingReply       string
	ThanksReply         string
	NotFoundReply       string
	ApologyReply        string
	FeatureCollection   string
	ParameterCollection string
	// ParameterHelp enables the broad parameter-help category; deployments
	// that only index feature walkthroughs leave it off.
	ParameterHelp bool
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// A missing .env is fine; plain environment variables are used as-is
	// (Docker/K8s deployments).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	llmTimeout, _ := strconv.Atoi(getEnv("OPENAI_REQUEST_TIMEOUT", "30"))
	anchorLimit, _ := strconv.Atoi(getEnv("RETRIEVAL_ANCHOR_LIMIT", "15"))
	probeLimit, _ := strconv.Atoi(getEnv("RETRIEVAL_PROBE_LIMIT", "10"))
	broadLimit, _ := strconv.Atoi(getEnv("RETRIEVAL_BROAD_LIMIT", "50"))
	parameterHelp := getEnv("ASSISTANT_PARAMETER_HELP", "false") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "evo_assist"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			RequestTimeout: time.Duration(llmTimeout) * time.Second,
		},
		Retrieval: RetrievalConfig{
			AnchorLimit: anchorLimit,
			ProbeLimit:  probeLimit,
			BroadLimit:  broadLimit,
		},
		Assistant: AssistantConfig{
			Name:                getEnv("ASSISTANT_NAME", "Evo"),
			GreetingReply:       getEnv("ASSISTANT_GREETING_REPLY", "Olá! Eu sou o Evo, suporte inteligente da GoEvo. Como posso ajudar?"),
			ThanksReply:         getEnv("ASSISTANT_THANKS_REPLY", "De nada! Se precisar de algo mais, é só chamar! 😊"),
			NotFoundReply:       getEnv("ASSISTANT_NOT_FOUND_REPLY", "Ainda não tenho esse passo a passo. Pode reformular a pergunta?"),
			ApologyReply:        getEnv("ASSISTANT_APOLOGY_REPLY", "Desculpe, não consegui processar sua pergunta agora. Tente novamente em instantes."),
			FeatureCollection:   getEnv("ASSISTANT_FEATURE_COLLECTION", "colecao_funcionalidades"),
			ParameterCollection: getEnv("ASSISTANT_PARAMETER_COLLECTION", "colecao_parametros"),
			ParameterHelp:       parameterHelp,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
