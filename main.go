package main

import (
	"log"

	"github.com/GrainArc/XPlanMap/config"
	"github.com/GrainArc/XPlanMap/models"
	"github.com/GrainArc/XPlanMap/routers"
	"github.com/gin-gonic/gin"
)

// 跨域中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func main() {
	models.InitDB()

	r := gin.Default()
	r.Use(Cors())
	r.MaxMultipartMemory = 512 << 20

	// 附件文档直接静态访问
	r.Static("/Dokumente", config.Download)

	routers.XPlanRouters(r)

	log.Printf("XPlanMap启动于 %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatal(err)
	}
}
