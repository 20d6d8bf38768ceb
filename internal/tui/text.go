package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listview"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// labels holds the UI captions for one language
type labels struct {
	Views       [4]string
	Endpoints   map[domain.ListEndpoint]string
	Sorts       map[listview.SortKey]string
	Page        string
	Loading     string
	End         string
	Empty       string
	AllGenres   string
	Genre       string
	Sort        string
	MinRating   string
	MinYear     string
	Search      string
	FilterTitle string
	Saved       string
	Removed     string
	SignedInAs  string
	FetchFailed string
	Detail      components.DetailLabels
}

var korean = labels{
	Views: [4]string{"테이블", "스크롤", "위시리스트", "검색 결과"},
	Endpoints: map[domain.ListEndpoint]string{
		domain.EndpointPopular:    "인기",
		domain.EndpointNowPlaying: "상영 중",
		domain.EndpointTopRated:   "최고 평점",
		domain.EndpointUpcoming:   "개봉 예정",
		domain.EndpointTrending:   "트렌딩",
	},
	Sorts: map[listview.SortKey]string{
		listview.SortNone:    "기본",
		listview.SortRating:  "평점순",
		listview.SortRelease: "최신순",
	},
	Page:        "페이지",
	Loading:     "불러오는 중...",
	End:         "마지막 페이지입니다",
	Empty:       "표시할 영화가 없습니다",
	AllGenres:   "전체",
	Genre:       "장르",
	Sort:        "정렬",
	MinRating:   "최소 평점",
	MinYear:     "최소 연도",
	Search:      "영화 검색",
	FilterTitle: "위시리스트 필터",
	Saved:       "위시리스트에 추가했습니다",
	Removed:     "위시리스트에서 제거했습니다",
	SignedInAs:  "로그인:",
	FetchFailed: "데이터를 불러오지 못했습니다. API 키와 네트워크를 확인하세요.",
	Detail: components.DetailLabels{
		Loading:    "상세 정보를 불러오는 중...",
		Released:   "개봉일",
		Genres:     "장르",
		Poster:     "포스터",
		LastViewed: "최근 조회",
		NoInfo:     "선택된 영화가 없습니다",
	},
}

var english = labels{
	Views: [4]string{"Table", "Scroll", "Wishlist", "Results"},
	Endpoints: map[domain.ListEndpoint]string{
		domain.EndpointPopular:    "Popular",
		domain.EndpointNowPlaying: "Now Playing",
		domain.EndpointTopRated:   "Top Rated",
		domain.EndpointUpcoming:   "Upcoming",
		domain.EndpointTrending:   "Trending",
	},
	Sorts: map[listview.SortKey]string{
		listview.SortNone:    "Default",
		listview.SortRating:  "Rating",
		listview.SortRelease: "Newest",
	},
	Page:        "Page",
	Loading:     "Loading...",
	End:         "End of list",
	Empty:       "Nothing to show",
	AllGenres:   "All",
	Genre:       "Genre",
	Sort:        "Sort",
	MinRating:   "Min rating",
	MinYear:     "Min year",
	Search:      "Search movies",
	FilterTitle: "Filter wishlist",
	Saved:       "Added to wishlist",
	Removed:     "Removed from wishlist",
	SignedInAs:  "Signed in:",
	FetchFailed: "Could not load data. Check the API key and network.",
	Detail: components.DetailLabels{
		Loading:    "Loading details...",
		Released:   "Released",
		Genres:     "Genres",
		Poster:     "Poster",
		LastViewed: "Last viewed",
		NoInfo:     "Nothing selected",
	},
}

// textFor returns the captions for a language, Korean by default
func textFor(lang domain.Language) labels {
	if lang == domain.LanguageEnglish {
		return english
	}
	return korean
}
