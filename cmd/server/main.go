package main

import (
	"flag"
	"net/http"

	"github.com/Luismorlan/craftvalley/auth"
	"github.com/Luismorlan/craftvalley/server"
	"github.com/Luismorlan/craftvalley/server/middlewares"
	"github.com/Luismorlan/craftvalley/storage"
	"github.com/Luismorlan/craftvalley/store"
	. "github.com/Luismorlan/craftvalley/utils"
	"github.com/Luismorlan/craftvalley/utils/dotenv"
	. "github.com/Luismorlan/craftvalley/utils/flag"
	. "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func init() {
	Log.Info("api server initialized")
}

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	DatabaseSetupAndMigration(db)

	if !ByPassAuth {
		verifier, err := auth.NewCognitoVerifier()
		if err != nil {
			// Abort directly if the verifier isn't setup successfully,
			// which is crucial for server side authorization.
			Log.Fatal("fail to setup token verifier: ", err)
		}
		middlewares.Setup(verifier)
	}

	objects, err := storage.NewS3ObjectStore()
	if err != nil {
		Log.Fatal("fail to setup object store: ", err)
	}

	srv := server.NewServer(store.NewStore(db), objects, auth.NewExchangerFromEnv(), GetRedisClient())

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))
	if !ByPassAuth {
		router.Use(middlewares.OptionalToken())
	}

	srv.RegisterRoutes(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	Log.Info("api server starts up")
	router.Run(":8080")
}
