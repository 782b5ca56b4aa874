package summary

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "only short sentences",
			in:   "Hi. Ok! Sure?",
			want: "",
		},
		{
			name: "drops short sentences and trims",
			in:   "Short one.   The quarterly report is finished!!! Yes. Budget numbers need another review?",
			want: "The quarterly report is finished. Budget numbers need another review.",
		},
		{
			name: "keeps at most five",
			in: "Sentence number one is long enough. Sentence number two is long enough. " +
				"Sentence number three is long enough. Sentence number four is long enough. " +
				"Sentence number five is long enough. Sentence number six is long enough.",
			want: "Sentence number one is long enough. Sentence number two is long enough. " +
				"Sentence number three is long enough. Sentence number four is long enough. " +
				"Sentence number five is long enough.",
		},
		{
			name: "exactly twenty characters is too short",
			in:   "abcdefghijklmnopqrst. abcdefghijklmnopqrstu.",
			want: "abcdefghijklmnopqrstu.",
		},
		{
			name: "length counts characters not bytes",
			in:   "Привет, дорогой друг. Сегодня мы обсуждаем годовой отчёт.",
			want: "Сегодня мы обсуждаем годовой отчёт.",
		},
		{
			name: "no terminator",
			in:   "a single line without any punctuation at all",
			want: "a single line without any punctuation at all.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.in); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
