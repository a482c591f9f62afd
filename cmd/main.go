package main

import (
	"fmt"
	"os"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
	"github.com/Gmy-678/voice-changer/application/services"
	"github.com/Gmy-678/voice-changer/config"
	"github.com/Gmy-678/voice-changer/infrastructure/adapters"
	"github.com/Gmy-678/voice-changer/infrastructure/gin_interface/controllers"
	"github.com/Gmy-678/voice-changer/middleware"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	uploadConfig, err := config.GetUploadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get upload config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	demoConfig, err := config.GetDemoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get demo config")
	}

	voiceLibraryConfig, err := config.GetVoiceLibraryConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get voice library config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(32, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	transcoder := adapters.NewFFMPEGTranscoder(zeroLogger)
	prober := adapters.NewFFProbeProber(zeroLogger)
	effectEngine := adapters.NewFFMPEGEffectEngine(transcoder, zeroLogger)
	toneSynth := adapters.NewWAVToneSynthesizer()

	var provider outbound.ConversionProviderPort
	providerAvailable := false
	if config.ElevenLabsConfigured() {
		elevenLabsConfig, err := config.GetElevenLabsConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get eleven labs config")
		}
		contentFetcher := adapters.NewContentFetcher(zeroLogger)
		provider = adapters.NewElevenLabsProvider(contentFetcher, elevenLabsConfig, zeroLogger)
		providerAvailable = true
	}

	publisher := adapters.NewLocalOutputPublisher(pipelineConfig.OutputsDir, zeroLogger)
	if config.S3Configured() {
		s3Config, err := config.GetS3Config()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get s3 config")
		}
		publisher = adapters.NewS3OutputPublisher(zeroLogger, s3Config)
	}

	userVoices := adapters.NewLocalUserVoiceStore(voiceLibraryConfig.LocalDir, zeroLogger)

	favorites := adapters.NewLocalFavoritesStore(voiceLibraryConfig.LocalDir, zeroLogger)
	if config.DynamoConfigured() {
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}
		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
		if region := os.Getenv("REGION"); region != "" {
			sess.Config.Region = aws.String(region)
		}
		favorites = adapters.NewDynamoFavoritesStore(zeroLogger, dynamodb.New(sess), dynamoConfig)
	}

	pageCache, err := adapters.NewLRUVoicePageCache(voiceLibraryConfig.CacheMaxSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create voice page cache")
	}

	voiceRepository := adapters.NewBuiltinVoiceRepository(effectEngine, userVoices, zeroLogger)

	validator := services.NewUploadValidator(uploadConfig, prober, zeroLogger)
	resolver := services.NewVoiceResolver(effectEngine, userVoices, demoConfig, providerAvailable)

	standardizeStep := services.NewStandardizeStep(transcoder, prober, zeroLogger)
	voiceChangeStep := services.NewVoiceChangeStep(effectEngine, provider, toneSynth, pipelineConfig.FallbackToneSeconds, zeroLogger)
	exportStep := services.NewExportStep(transcoder, publisher, zeroLogger)

	voiceChanger := services.NewVoiceChangerService(pipelineConfig, validator, resolver, standardizeStep, voiceChangeStep, exportStep, zeroLogger)
	voiceLibrary := services.NewVoiceLibraryService(voiceRepository, userVoices, favorites, pageCache, effectEngine, zeroLogger)
	previewService := services.NewPreviewService(effectEngine, userVoices, toneSynth, pipelineConfig.OutputsDir, pipelineConfig.RunsDir, zeroLogger)

	sweeper := services.NewRunSweeper(pipelineConfig.RunsDir, pipelineConfig.OutputsDir, pipelineConfig.RunTTL, zeroLogger)
	if err := sweeper.Start(workerPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to start run sweeper")
	}
	defer sweeper.Stop()

	previewService.Warmup(workerPool)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	corsConfig := cors.DefaultConfig()
	if serverConfig.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = serverConfig.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-User-Id")
	router.Use(cors.New(corsConfig))

	identityHandler, err := middleware.NewIdentityHandler(os.Getenv("JWKS_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create identity handler!")
	}
	router.Use(identityHandler.IdentityMiddleware())

	router.Static("/outputs", pipelineConfig.OutputsDir)

	voiceChangerController := controllers.NewVoiceChangerController(zeroLogger, voiceChanger, voiceLibrary, pipelineConfig)
	voiceChangerController.RegisterRoutes(router)

	voiceLibraryController := controllers.NewVoiceLibraryController(zeroLogger, voiceLibrary, previewService)
	voiceLibraryController.RegisterRoutes(router)

	if err := router.Run(":" + serverConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
