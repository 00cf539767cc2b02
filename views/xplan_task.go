package views

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GrainArc/XPlanMap/Transformer"
	"github.com/GrainArc/XPlanMap/config"
	"github.com/GrainArc/XPlanMap/methods"
	"github.com/GrainArc/XPlanMap/services"
	"github.com/GrainArc/XPlanMap/xplangml"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// 任务状态枚举
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// WebSocket进度消息结构体
type ProgressMessage struct {
	Type       string `json:"type"`
	Percentage int    `json:"percentage,omitempty"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// WebSocket客户端消息结构体
type ClientMessage struct {
	Action string `json:"action"`
}

// 导入任务信息结构体
type ImportTaskInfo struct {
	ID        string             `json:"id"`
	Status    TaskStatus         `json:"status"`
	Dateiname string             `json:"dateiname"`
	Pfad      string             `json:"-"`
	CreatedAt time.Time          `json:"created_at"`
	StartedAt *time.Time         `json:"started_at,omitempty"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	Error     string             `json:"error,omitempty"`
	PlanUUID  string             `json:"plan_uuid,omitempty"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
	mutex     sync.RWMutex       `json:"-"`
}

// 导入任务管理器
type ImportTaskManager struct {
	tasks map[string]*ImportTaskInfo
	mutex sync.RWMutex
}

var importTaskManager = &ImportTaskManager{
	tasks: make(map[string]*ImportTaskInfo),
}

func (itm *ImportTaskManager) AddTask(task *ImportTaskInfo) {
	itm.mutex.Lock()
	defer itm.mutex.Unlock()
	itm.tasks[task.ID] = task
}

func (itm *ImportTaskManager) GetTask(taskID string) (*ImportTaskInfo, bool) {
	itm.mutex.RLock()
	defer itm.mutex.RUnlock()
	task, exists := itm.tasks[taskID]
	return task, exists
}

func (itm *ImportTaskManager) RemoveTask(taskID string) {
	itm.mutex.Lock()
	defer itm.mutex.Unlock()
	if task, exists := itm.tasks[taskID]; exists {
		if task.Cancel != nil {
			task.Cancel()
		}
		delete(itm.tasks, taskID)
	}
}

// 更新任务状态
func (task *ImportTaskInfo) UpdateStatus(status TaskStatus) {
	task.mutex.Lock()
	defer task.mutex.Unlock()
	task.Status = status
	now := time.Now()

	switch status {
	case TaskStatusRunning:
		task.StartedAt = &now
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		task.EndedAt = &now
	}
}

// StartImport 创建大文档异步导入任务，上传后返回task_id
func (xc *XPlanController) StartImport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	uploadDir := filepath.Join(config.Download, "Upload", uuid.New().String())
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	pfad := filepath.Join(uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, pfad); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	// 创建任务
	taskID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	task := &ImportTaskInfo{
		ID:        taskID,
		Status:    TaskStatusPending,
		Dateiname: file.Filename,
		Pfad:      pfad,
		CreatedAt: time.Now(),
		Context:   ctx,
		Cancel:    cancel,
	}

	importTaskManager.AddTask(task)

	c.JSON(200, gin.H{
		"task_id": taskID,
		"status":  task.Status,
		"message": "导入任务已创建，请使用WebSocket连接开始执行",
		"ws_url":  fmt.Sprintf("/xplan/import/ws/%s", taskID),
	})
}

// ImportWebSocket 处理WebSocket连接并执行导入任务
func (xc *XPlanController) ImportWebSocket(c *gin.Context) {
	taskID := c.Param("taskId")

	task, exists := importTaskManager.GetTask(taskID)
	if !exists {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}

	task.mutex.RLock()
	if task.Status != TaskStatusPending {
		task.mutex.RUnlock()
		c.JSON(400, gin.H{"error": "任务已经开始或已完成"})
		return
	}
	task.mutex.RUnlock()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(500, gin.H{"error": "WebSocket升级失败"})
		return
	}
	defer ws.Close()

	task.UpdateStatus(TaskStatusRunning)

	// 用于协调取消操作的通道
	cancelChan := make(chan bool, 1)

	go func() {
		for {
			var msg ClientMessage
			err := ws.ReadJSON(&msg)
			if err != nil {
				fmt.Printf("WebSocket读取错误: %v\n", err)
				cancelChan <- true
				return
			}

			if msg.Action == "cancel" {
				fmt.Printf("收到导入任务 %s 的取消请求\n", taskID)
				cancelChan <- true
				task.Cancel()
				return
			}
		}
	}()

	var wsMutex sync.Mutex
	progressCallback := func(aktuell, gesamt int) {
		select {
		case <-task.Context.Done():
			return
		default:
		}

		percentage := 0
		if gesamt > 0 {
			percentage = aktuell * 100 / gesamt
		}
		progressMsg := ProgressMessage{
			Type:       "progress",
			Percentage: percentage,
			Message:    fmt.Sprintf("已解码 %d/%d 个要素", aktuell, gesamt),
			Timestamp:  time.Now().UnixMilli(),
		}

		wsMutex.Lock()
		ws.WriteJSON(progressMsg)
		wsMutex.Unlock()
	}

	startTime := time.Now()

	// 在goroutine中执行导入，以便能够响应取消操作
	resultChan := make(chan gin.H, 1)
	errorChan := make(chan error, 1)

	go func() {
		pfad := task.Pfad
		if strings.EqualFold(filepath.Ext(pfad), ".rar") {
			if err := methods.Unzip(pfad); err != nil {
				errorChan <- fmt.Errorf("解压失败: %v", err)
				return
			}
			gmls := Transformer.FindFiles(filepath.Dir(pfad), "gml")
			if len(gmls) == 0 {
				errorChan <- fmt.Errorf("压缩包内没有gml文档")
				return
			}
			pfad = gmls[0]
		}

		svc := services.NewPlanService()
		ctx := &xplangml.LeseKontext{
			QueryExisting: svc.QueryExisting,
			Progress:      progressCallback,
		}

		ergebnis, importErr := neuerReader().ReadFile(pfad, ctx)
		if ergebnis == nil || ergebnis.Plan == nil {
			errorChan <- fmt.Errorf("%s", fehlerText(importErr))
			return
		}

		row, err := svc.SpeichereImport(ergebnis, task.Dateiname, importErr)
		if err != nil {
			errorChan <- err
			return
		}

		antwort := gin.H{
			"uuid":      row.UUID,
			"name":      row.Name,
			"version":   ergebnis.Version.String(),
			"anzahl":    len(ergebnis.Plan.Alle()),
			"warnungen": ergebnis.Warnungen,
		}
		if importErr != nil {
			antwort["fehler"] = fehlerListe(importErr)
		}
		resultChan <- antwort
	}()

	select {
	case <-cancelChan:
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("导入任务 %s 已被用户取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		wsMutex.Lock()
		ws.WriteJSON(cancelMsg)
		wsMutex.Unlock()
		return

	case <-task.Context.Done():
		task.UpdateStatus(TaskStatusCancelled)
		cancelMsg := ProgressMessage{
			Type:      "cancelled",
			Message:   fmt.Sprintf("导入任务 %s 已被取消", taskID),
			Timestamp: time.Now().UnixMilli(),
		}
		wsMutex.Lock()
		ws.WriteJSON(cancelMsg)
		wsMutex.Unlock()
		return

	case err := <-errorChan:
		task.UpdateStatus(TaskStatusFailed)
		task.mutex.Lock()
		task.Error = err.Error()
		task.mutex.Unlock()

		errorMsg := ProgressMessage{
			Type:      "error",
			Message:   "导入失败: " + err.Error(),
			Timestamp: time.Now().UnixMilli(),
		}
		wsMutex.Lock()
		ws.WriteJSON(errorMsg)
		wsMutex.Unlock()
		return

	case antwort := <-resultChan:
		select {
		case <-task.Context.Done():
			task.UpdateStatus(TaskStatusCancelled)
			cancelMsg := ProgressMessage{
				Type:      "cancelled",
				Message:   fmt.Sprintf("导入任务 %s 已被用户取消", taskID),
				Timestamp: time.Now().UnixMilli(),
			}
			wsMutex.Lock()
			ws.WriteJSON(cancelMsg)
			wsMutex.Unlock()
			return
		default:
		}

		task.mutex.Lock()
		if u, ok := antwort["uuid"].(string); ok {
			task.PlanUUID = u
		}
		task.mutex.Unlock()
		task.UpdateStatus(TaskStatusCompleted)

		elapsedTime := time.Since(startTime)
		completionMsg := ProgressMessage{
			Type:       "complete",
			Percentage: 100,
			Message:    fmt.Sprintf("导入完成，耗时: %v", elapsedTime),
			Timestamp:  time.Now().UnixMilli(),
		}
		wsMutex.Lock()
		ws.WriteJSON(completionMsg)
		ws.WriteJSON(antwort)
		wsMutex.Unlock()
	}
}

// GetImportTaskStatus 查询导入任务状态
func (xc *XPlanController) GetImportTaskStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	task, exists := importTaskManager.GetTask(taskID)
	if !exists {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}

	task.mutex.RLock()
	defer task.mutex.RUnlock()
	c.JSON(200, gin.H{
		"task_id":    task.ID,
		"status":     task.Status,
		"dateiname":  task.Dateiname,
		"created_at": task.CreatedAt,
		"started_at": task.StartedAt,
		"ended_at":   task.EndedAt,
		"error":      task.Error,
		"plan_uuid":  task.PlanUUID,
	})
}

// CancelImportTask 取消导入任务并移除
func (xc *XPlanController) CancelImportTask(c *gin.Context) {
	taskID := c.Param("taskId")

	if _, exists := importTaskManager.GetTask(taskID); !exists {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}
	importTaskManager.RemoveTask(taskID)
	c.JSON(200, gin.H{"message": "任务已取消"})
}
