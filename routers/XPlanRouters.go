package routers

import (
	"github.com/GrainArc/XPlanMap/views"
	"github.com/gin-gonic/gin"
)

func XPlanRouters(r *gin.Engine) {
	XPlanController := &views.XPlanController{}
	mapRouter := r.Group("/xplan")
	{
		// 同步导入小文档，大文档走任务接口
		mapRouter.POST("/Import", XPlanController.ImportXPlan)
		mapRouter.GET("/Export", XPlanController.ExportXPlan)
		mapRouter.GET("/GetPlanList", XPlanController.GetPlanList)
		mapRouter.GET("/GetPlan", XPlanController.GetPlan)
		mapRouter.GET("/DelPlan", XPlanController.DeletePlan)
		mapRouter.GET("/ShowPlanGeo", XPlanController.ShowPlanGeo)
		mapRouter.GET("/ImportProtokoll", XPlanController.GetImportProtokoll)
	}
	{
		// shapefile几何交换
		mapRouter.POST("/ImportGeomFromShp", XPlanController.ImportGeomFromShp)
		mapRouter.GET("/ExportPlanShp", XPlanController.ExportPlanShp)
	}
	{
		// POST用于提交导入任务配置
		mapRouter.POST("/import/start", XPlanController.StartImport)
		// GET用于WebSocket连接
		mapRouter.GET("/import/ws/:taskId", XPlanController.ImportWebSocket)
		// GET用于查询任务状态（可选）
		mapRouter.GET("/import/status/:taskId", XPlanController.GetImportTaskStatus)
		mapRouter.POST("/import/cancel/:taskId", XPlanController.CancelImportTask)
	}
}
