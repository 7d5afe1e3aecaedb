package command

// Topic is the classification bucket assigned to a free-text command.
type Topic string

const (
	TopicTemperature Topic = "temperature"
	TopicHumidity    Topic = "humidity"
	TopicWind        Topic = "wind"
	TopicRain        Topic = "rain"
	TopicSnow        Topic = "snow"
	TopicSunny       Topic = "sunny"
	TopicCloudy      Topic = "cloudy"
	TopicForecast    Topic = "forecast"
	TopicGeneral     Topic = "general"
)

type topicRule struct {
	topic           Topic
	keywords        []string
	acknowledgement string
}

// Declaration order is match priority: the first rule with a matching keyword wins.
var topicRules = []topicRule{
	{
		topic:           TopicTemperature,
		keywords:        []string{"temp", "temperature", "hot", "cold", "warm"},
		acknowledgement: "The current temperature is being fetched. Would you like me to tell you the high and low temperatures for today?",
	},
	{
		topic:           TopicHumidity,
		keywords:        []string{"humidity", "humid", "moisture"},
		acknowledgement: "I'm checking the humidity levels for you. This affects how the temperature feels.",
	},
	{
		topic:           TopicWind,
		keywords:        []string{"wind", "breeze", "windy"},
		acknowledgement: "Let me get the wind speed and direction for you. This is important for outdoor activities.",
	},
	{
		topic:           TopicRain,
		keywords:        []string{"rain", "rainy", "precipitation", "wet"},
		acknowledgement: "I'm checking the precipitation forecast. This will help you plan your day.",
	},
	{
		topic:           TopicSnow,
		keywords:        []string{"snow", "snowy", "winter"},
		acknowledgement: "Let me check the snow conditions and accumulation for you.",
	},
	{
		topic:           TopicSunny,
		keywords:        []string{"sun", "sunny", "clear", "bright"},
		acknowledgement: "I'm looking at the sunshine forecast. This affects UV levels and outdoor activities.",
	},
	{
		topic:           TopicCloudy,
		keywords:        []string{"cloud", "cloudy", "overcast"},
		acknowledgement: "I'm checking the cloud cover. This affects temperature and visibility.",
	},
	{
		topic:           TopicForecast,
		keywords:        []string{"forecast", "prediction", "tomorrow", "week"},
		acknowledgement: "I'm analyzing the weather patterns to give you the most accurate forecast.",
	},
}

// GeneralAcknowledgement is returned when no keyword matches.
const GeneralAcknowledgement = "I'm sorry, I didn't understand that weather command. Try asking about temperature, humidity, wind, or forecast."

// Topics lists every topic in match priority order, General last.
func Topics() []Topic {
	out := make([]Topic, 0, len(topicRules)+1)
	for _, r := range topicRules {
		out = append(out, r.topic)
	}
	return append(out, TopicGeneral)
}
