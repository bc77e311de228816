package handler

import (
	"TripGenie-App/internal/domain/projection"
	"TripGenie-App/internal/usecase"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ViewHandler は一覧・地図・詳細・比較の表示用APIのハンドラー
type ViewHandler struct {
	tripUseCase usecase.TripPlannerUseCase
}

// NewViewHandler は新しいViewHandlerインスタンスを作成
func NewViewHandler(tripUseCase usecase.TripPlannerUseCase) *ViewHandler {
	return &ViewHandler{
		tripUseCase: tripUseCase,
	}
}

// GetItinerary は一覧画面を返す
// GET /trips/:id/views/itinerary?day=2&collapsed=true
func (h *ViewHandler) GetItinerary(c *gin.Context) {
	day, err := optionalDay(c)
	if err != nil {
		respondError(c, err)
		return
	}
	collapsed, _ := strconv.ParseBool(c.Query("collapsed"))

	view, err := h.tripUseCase.Itinerary(c.Request.Context(), c.Param("id"), usecase.ItineraryQuery{
		SelectedDay:     day,
		HeaderCollapsed: collapsed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMap は地図画面を返す。format=geojson の場合はFeatureCollectionで返す
// GET /trips/:id/views/map
func (h *ViewHandler) GetMap(c *gin.Context) {
	day, err := optionalDay(c)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.tripUseCase.Map(c.Request.Context(), c.Param("id"), projection.MapState{SelectedDay: day})
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, view)
	case "geojson":
		body, err := view.FeatureCollection().MarshalJSON()
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/geo+json", body)
	default:
		respondError(c, &ValidationError{Field: "format", Message: "formatは'json'または'geojson'を指定してください"})
	}
}

// GetDetail はアクティビティの詳細を返す
// GET /trips/:id/views/detail?day=1&activity=2
func (h *ViewHandler) GetDetail(c *gin.Context) {
	day, err := requiredPositive(c, "day")
	if err != nil {
		respondError(c, err)
		return
	}
	number, err := requiredPositive(c, "activity")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.tripUseCase.Detail(c.Request.Context(), c.Param("id"), day, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostComparison は比較用ツアーを生成して比較画面を返す
// POST /trips/:id/comparison
func (h *ViewHandler) PostComparison(c *gin.Context) {
	view, err := h.tripUseCase.Compare(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// optionalDay は day クエリを読む。未指定または"all"はnil
func optionalDay(c *gin.Context) (*int, error) {
	raw := c.Query("day")
	if raw == "" || raw == "all" {
		return nil, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 {
		return nil, &ValidationError{Field: "day", Message: "dayは1以上の整数で指定してください"}
	}
	return &day, nil
}

func requiredPositive(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, &ValidationError{Field: key, Message: key + "は必須です"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ValidationError{Field: key, Message: key + "は1以上の整数で指定してください"}
	}
	return n, nil
}
